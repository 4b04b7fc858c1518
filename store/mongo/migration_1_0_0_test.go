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
	"testing"

	"github.com/mendersoftware/go-lib-micro/mongo/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMigration_1_0_0(t *testing.T) {
	skipWithoutMongo(t)
	ctx := context.Background()

	testCases := map[string]struct {
		dbVer string
	}{
		"no version": {
			dbVer: "",
		},
		"0.0.1": {
			dbVer: "0.0.1",
		},
		"already migrated": {
			dbVer: "1.0.0",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			db.Wipe()
			c := db.Client()

			if tc.dbVer != "" {
				ver, err := migrate.NewVersion(tc.dbVer)
				require.NoError(t, err)
				_ = migrate.UpdateMigrationInfo(ctx, *ver, c, testDbName)
			}

			err := Migrate(ctx, testDbName, DbVersion, c, true)
			assert.NoError(t, err)
			if tc.dbVer == DbVersion {
				return
			}

			cur, err := c.Database(testDbName).
				Collection(CommandsCollectionName).
				Indexes().
				List(ctx)
			require.NoError(t, err)
			var indexes []bson.M
			require.NoError(t, cur.All(ctx, &indexes))

			names := map[string]bool{}
			for _, idx := range indexes {
				names[idx["name"].(string)] = true
			}
			assert.True(t, names[IndexNamePendingUnique])
			assert.True(t, names[IndexNameDeviceStatus])
			assert.True(t, names[IndexNameStatusCreated])
		})
	}
}

func TestMigrateWithoutAutomigrate(t *testing.T) {
	skipWithoutMongo(t)
	db.Wipe()

	err := Migrate(context.Background(), testDbName, DbVersion, db.Client(), false)
	assert.Error(t, err)
}
