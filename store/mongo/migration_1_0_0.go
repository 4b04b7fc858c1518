// Copyright 2025 Northern.tech AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package mongo

import (
	"context"

	"github.com/mendersoftware/go-lib-micro/mongo/migrate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mendersoftware/devicecommands/model"
)

const (
	IndexNamePendingUnique = "pending_device_type_value"
	IndexNameDeviceStatus  = "device_status_created_at"
	IndexNameStatusCreated = "status_created_at"
	IndexNameDevicesStatus = "status_last_ping_at"
)

type migration1_0_0 struct {
	client *mongo.Client
	db     string
}

// Up creates the command and device indexes
func (m *migration1_0_0) Up(from migrate.Version) error {
	ctx := context.Background()
	database := m.client.Database(m.db)

	// at most one pending command per device, type and value
	_, err := database.Collection(CommandsCollectionName).Indexes().CreateMany(ctx,
		[]mongo.IndexModel{{
			Keys: bson.D{
				{Key: "device_id", Value: 1},
				{Key: "type", Value: 1},
				{Key: "value", Value: 1},
			},
			Options: mopts.Index().
				SetName(IndexNamePendingUnique).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": model.CommandStatusPending,
				}),
		}, {
			Keys: bson.D{
				{Key: "device_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: 1},
				{Key: "seq", Value: 1},
			},
			Options: mopts.Index().SetName(IndexNameDeviceStatus),
		}, {
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: mopts.Index().SetName(IndexNameStatusCreated),
		}})
	if err != nil {
		return err
	}

	_, err = database.Collection(DevicesCollectionName).Indexes().CreateOne(ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "last_ping_at", Value: 1},
			},
			Options: mopts.Index().SetName(IndexNameDevicesStatus),
		})
	return err
}

func (m *migration1_0_0) Version() migrate.Version {
	return migrate.MakeVersion(1, 0, 0)
}
