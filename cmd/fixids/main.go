// Command fixids is a one-off maintenance tool. Early clients wrote
// user ids into post documents (and their embedded comments) as strings;
// this walks every post and rewrites those values back to numbers.
package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/entrelinhas/backend/pkg/config"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	cfg := config.Load()
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	posts := client.Database(cfg.MongoDatabase).Collection("posts")

	cursor, err := posts.Find(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Failed to list posts: %v", err)
	}
	defer cursor.Close(ctx)

	scanned, fixed := 0, 0
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			log.Fatalf("Failed to decode post: %v", err)
		}
		scanned++

		set := bson.M{}

		if id, ok := numericFromString(doc["user_id"]); ok {
			set["user_id"] = id
		}

		if comments, ok := doc["comments"].(bson.A); ok {
			for i, raw := range comments {
				comment, ok := raw.(bson.M)
				if !ok {
					continue
				}
				if id, ok := numericFromString(comment["user_id"]); ok {
					set["comments."+strconv.Itoa(i)+".user_id"] = id
				}
			}
		}

		if len(set) == 0 {
			continue
		}

		if _, err := posts.UpdateOne(ctx, bson.M{"_id": doc["_id"]}, bson.M{"$set": set}); err != nil {
			log.Fatalf("Failed to update post %v: %v", doc["_id"], err)
		}
		fixed++
		log.Printf("Post %v updated", doc["_id"])
	}
	if err := cursor.Err(); err != nil {
		log.Fatalf("Cursor error: %v", err)
	}

	log.Printf("Done: %d posts scanned, %d fixed", scanned, fixed)
}

// numericFromString reports the numeric form of a user id that was
// mistakenly stored as a string.
func numericFromString(v interface{}) (int64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
