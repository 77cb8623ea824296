package validators

import "go.mongodb.org/mongo-driver/bson"

var FishValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"payload",
			"updated_at",
		},
		"additionalProperties": false,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"pattern":   "^[^./]+$",
			},

			"payload": bson.M{
				"bsonType": "binData",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
