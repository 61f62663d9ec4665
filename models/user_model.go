package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Id       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role,omitempty" json:"role,omitempty"`
	CartData CartData           `bson:"cartData" json:"cartData"`
}

// CartData maps an item id to the requested quantity.
type CartData map[string]int

// Clone returns a copy that can be mutated without touching c.
func (c CartData) Clone() CartData {
	out := make(CartData, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
