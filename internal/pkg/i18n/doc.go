// Package i18n provides locale-aware message rendering for user-facing
// texts such as the SMS body. It ships a small built-in catalog and lets
// deployments override or extend it through configuration.
package i18n
