// AngelaMos | 2026
// actions.go

package audit

// Action codes are stable identifiers; operators filter on them.
const (
	ActionLoginSuccess            = "LOGIN_SUCCESS"
	ActionLoginFailedUserNotFound = "LOGIN_FAILED_USER_NOT_FOUND"
	ActionLoginFailedWrongPass    = "LOGIN_FAILED_WRONG_PASSWORD"
	ActionSignup                  = "SIGNUP"
	ActionLogout                  = "LOGOUT"
	ActionLogoutAll               = "LOGOUT_ALL"
	ActionPasswordChanged         = "PASSWORD_CHANGED"
	ActionTokenReuseDetected      = "TOKEN_REUSE_DETECTED"
	ActionSessionRevoked          = "SESSION_REVOKED"

	ActionUserUpdated     = "USER_UPDATED"
	ActionUserActivated   = "USER_ACTIVATED"
	ActionUserDeactivated = "USER_DEACTIVATED"
	ActionUserDeleted     = "USER_DELETED"

	ActionGameCreated       = "GAME_CREATED"
	ActionGameDeleted       = "GAME_DELETED"
	ActionGameQuestionAdded = "GAME_QUESTION_ADDED"

	ActionQuestionCreated = "QUESTION_CREATED"
	ActionQuestionDeleted = "QUESTION_DELETED"

	ActionThemeCreated = "THEME_CREATED"
	ActionThemeDeleted = "THEME_DELETED"
)

const (
	EntityUser     = "user"
	EntityGame     = "game"
	EntityQuestion = "question"
	EntityTheme    = "theme"
	EntitySession  = "session"
)
