package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	FlowID string `validate:"required"`
	Mobile string `validate:"omitempty,msisdn"`
}

func TestV10ValidatorValidate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	require.NoError(t, v.Validate(sampleInput{FlowID: "flow-1"}))
	require.NoError(t, v.Validate(sampleInput{FlowID: "flow-1", Mobile: "+45 10 10 10 10"}))

	err = v.Validate(sampleInput{})
	require.Error(t, err)

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Values(), "flow_id")
}

func TestMSISDNRule(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	valid := []string{
		"+4510101010",
		"+45 10 10 10 10",
		"4510101010",
		"628123456789",
	}
	for _, num := range valid {
		assert.NoError(t, v.Validate(sampleInput{FlowID: "f", Mobile: num}), num)
	}

	invalid := []string{
		"not-a-number",
		"+45-10-10-10-10",
		"12345",
		"+",
		"10 10",
	}
	for _, num := range invalid {
		assert.Error(t, v.Validate(sampleInput{FlowID: "f", Mobile: num}), num)
	}
}
