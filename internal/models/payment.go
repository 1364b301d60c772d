package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is append only. ReceiptKey names the archived receipt object, when there is one.
type Payment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PaidTo     string             `bson:"paidTo" json:"paidTo" validate:"required,email"`
	ReceiptKey string             `bson:"receiptKey,omitempty" json:"receiptKey,omitempty"`
	Extra      Extra              `bson:",inline" json:"-"`
}

func (p Payment) MarshalJSON() ([]byte, error) {
	type alias Payment
	return marshalWithExtra(alias(p), p.Extra)
}

func (p *Payment) UnmarshalJSON(data []byte) error {
	type alias Payment
	var a alias
	// receiptKey is server managed; a client value is discarded.
	extra, err := decodeWithExtra(data, &a, "paidTo", "receiptKey")
	if err != nil {
		return err
	}
	a.Extra = extra
	a.ReceiptKey = ""
	*p = Payment(a)
	return nil
}
