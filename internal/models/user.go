package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	Name     string             `bson:"name,omitempty" json:"name,omitempty"`
	Role     string             `bson:"role,omitempty" json:"role,omitempty"`
	Verified *Flag              `bson:"verified,omitempty" json:"verified,omitempty"`
	Salary   *Amount            `bson:"salary,omitempty" json:"salary,omitempty"`
	Extra    Extra              `bson:",inline" json:"-"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return marshalWithExtra(alias(u), u.Extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var a alias
	extra, err := decodeWithExtra(data, &a, "email", "name", "role", "verified", "salary")
	if err != nil {
		return err
	}
	a.Extra = extra
	*u = User(a)
	return nil
}
