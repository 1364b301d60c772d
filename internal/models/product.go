package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is read only through the API. dateAdded and any other stored
// fields travel in Extra.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductName string             `bson:"productName,omitempty" json:"productName,omitempty"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Price       Amount             `bson:"price" json:"price"`
	Extra       Extra              `bson:",inline" json:"-"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return marshalWithExtra(alias(p), p.Extra)
}
