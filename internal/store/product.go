package store

import (
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the primary store representation of a product.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"ProductName"`
	Category    string             `bson:"ProductCategory"`
	Price       int64              `bson:"Price"` // Price in cents
	Quantity    Quantity           `bson:"AvailableQuantity"`
	Description string             `bson:"ProductDescription"`
}

// Quantity is the stored available quantity. It is written as a string and
// also decodes the numeric values found in seeded data.
type Quantity string

// UnmarshalBSONValue decodes string and numeric BSON values.
func (q *Quantity) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeString:
		*q = Quantity(raw.StringValue())
	case bson.TypeInt32:
		*q = Quantity(strconv.FormatInt(int64(raw.Int32()), 10))
	case bson.TypeInt64:
		*q = Quantity(strconv.FormatInt(raw.Int64(), 10))
	case bson.TypeDouble:
		*q = Quantity(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bson.TypeNull:
		*q = ""
	default:
		return fmt.Errorf("cannot decode %s into quantity", t)
	}
	return nil
}
