package constants

import "fmt"

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleFreelancer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
