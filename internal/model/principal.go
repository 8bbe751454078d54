package model

const RoleOperator = "operator"

// Principal is the authenticated caller. In the bot deployment UserID is the
// Discord user snowflake.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsOperator() bool {
	return p.Role == RoleOperator
}
