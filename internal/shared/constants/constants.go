// Package constants holds shared constant values.
package constants

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	ContextKeyUserID      = "user_id"
	ContextKeyUserType    = "user_type"
	ContextKeyDisplayName = "display_name"
)
