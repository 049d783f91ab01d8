package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"username",
			"password_hash",
			"timezone",
			"is_admin",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"username": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 30,
				// Canonical lowercase form.
				"pattern": "^[a-z0-9_.-]+$",
			},

			"password_hash": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"timezone": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"is_admin": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
