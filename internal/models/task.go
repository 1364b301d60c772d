package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is free-form apart from the owner email. date is kept as sent and only used for ordering.
type Task struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email string             `bson:"email" json:"email" validate:"required,email"`
	Extra Extra              `bson:",inline" json:"-"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	return marshalWithExtra(alias(t), t.Extra)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	var a alias
	extra, err := decodeWithExtra(data, &a, "email")
	if err != nil {
		return err
	}
	a.Extra = extra
	*t = Task(a)
	return nil
}
