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
	"crypto/tls"
	"encoding/json"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	dconfig "github.com/mendersoftware/devicecommands/config"
	"github.com/mendersoftware/devicecommands/model"
	"github.com/mendersoftware/devicecommands/store"
)

const (
	// CommandsCollectionName refers to the name of the collection of commands
	CommandsCollectionName = "commands"

	// DevicesCollectionName refers to the name of the collection of stored devices
	DevicesCollectionName = "devices"
)

var _ store.DataStore = &DataStoreMongo{}

type commandDoc struct {
	ID         string              `bson:"_id"`
	Seq        primitive.ObjectID  `bson:"seq"`
	DeviceID   string              `bson:"device_id"`
	Type       model.CommandType   `bson:"type"`
	Value      string              `bson:"value"`
	Status     model.CommandStatus `bson:"status"`
	RetryCount int                 `bson:"retry_count"`
	CreatedAt  time.Time           `bson:"created_at"`
}

func (doc commandDoc) command() (*model.Command, error) {
	value, err := model.ParseValue(doc.Type, json.RawMessage(doc.Value))
	if err != nil {
		return nil, errors.Wrapf(err, "corrupt value in command %s", doc.ID)
	}
	return &model.Command{
		ID:         doc.ID,
		DeviceID:   doc.DeviceID,
		Type:       doc.Type,
		Value:      value,
		Status:     doc.Status,
		RetryCount: doc.RetryCount,
		CreatedAt:  doc.CreatedAt.UTC(),
	}, nil
}

type deviceDoc struct {
	ID          string                 `bson:"_id"`
	Status      model.DeviceStatus     `bson:"status"`
	LastPingAt  time.Time              `bson:"last_ping_at"`
	CurrentStat map[string]interface{} `bson:"current_stat"`
}

func (doc deviceDoc) device() *model.Device {
	currentStat := doc.CurrentStat
	if currentStat == nil {
		currentStat = map[string]interface{}{}
	}
	return &model.Device{
		ID:          doc.ID,
		Status:      doc.Status,
		LastPingAt:  doc.LastPingAt.UTC(),
		CurrentStat: currentStat,
	}
}

// SetupDataStore returns the mongo data store and optionally runs migrations
func SetupDataStore(ctx context.Context, automigrate bool) (*DataStoreMongo, error) {
	dbClient, err := NewClient(ctx, config.Config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to db")
	}
	dataStore := NewDataStoreWithClient(dbClient, config.Config)
	if err = dataStore.Migrate(ctx, automigrate); err != nil {
		_ = dataStore.Close()
		return nil, err
	}
	return dataStore, nil
}

// NewClient returns a mongo client. The first connection is retried with
// exponential backoff for up to mongo_connect_timeout_seconds.
func NewClient(ctx context.Context, c config.Reader) (*mongo.Client, error) {
	clientOptions := mopts.Client()
	mongoURL := c.GetString(dconfig.SettingMongo)
	if !strings.Contains(mongoURL, "://") {
		return nil, errors.Errorf("Invalid mongoURL %q: missing schema.",
			mongoURL)
	}
	clientOptions.ApplyURI(mongoURL)

	username := c.GetString(dconfig.SettingDbUsername)
	if username != "" {
		credentials := mopts.Credential{
			Username: username,
		}
		password := c.GetString(dconfig.SettingDbPassword)
		if password != "" {
			credentials.Password = password
			credentials.PasswordSet = true
		}
		clientOptions.SetAuth(credentials)
	}

	if c.GetBool(dconfig.SettingDbSSL) {
		tlsConfig := &tls.Config{}
		tlsConfig.InsecureSkipVerify = c.GetBool(dconfig.SettingDbSSLSkipVerify)
		clientOptions.SetTLSConfig(tlsConfig)
	}

	// Acknowledge writes once they are committed to the journal.
	clientOptions.SetWriteConcern(writeconcern.New(
		writeconcern.W(1), writeconcern.J(true),
	))

	expBackoff := backoff.NewExponentialBackOff()
	if timeout := c.GetInt(dconfig.SettingDbConnectTimeout); timeout > 0 {
		expBackoff.MaxElapsedTime = time.Duration(timeout) * time.Second
	}

	l := log.FromContext(ctx)
	var client *mongo.Client
	connect := func() error {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		cl, err := mongo.Connect(connectCtx, clientOptions)
		if err != nil {
			return backoff.Permanent(
				errors.Wrap(err, "Failed to connect to mongo server"))
		}
		if err = cl.Ping(connectCtx, nil); err != nil {
			disconnectClient(ctx, cl)
			l.Warnf("mongo server not reachable yet: %s", err)
			return errors.Wrap(err, "Error reaching mongo server")
		}
		client = cl
		return nil
	}
	if err := backoff.Retry(connect, backoff.WithContext(expBackoff, ctx)); err != nil {
		return nil, err
	}

	return client, nil
}

func disconnectClient(parentCtx context.Context, client *mongo.Client) {
	ctx, cancel := context.WithTimeout(parentCtx, 1*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}

// DataStoreMongo is the data storage service
type DataStoreMongo struct {
	// client holds the reference to the client used to communicate with the
	// mongodb server.
	client *mongo.Client
	// dbName contains the name of the devicecommands database.
	dbName string
}

// NewDataStoreWithClient initializes a DataStore object
func NewDataStoreWithClient(client *mongo.Client, c config.Reader) *DataStoreMongo {
	dbName := c.GetString(dconfig.SettingDbName)
	if dbName == "" {
		dbName = DbName
	}

	return &DataStoreMongo{
		client: client,
		dbName: dbName,
	}
}

func (db *DataStoreMongo) commands() *mongo.Collection {
	return db.client.Database(db.dbName).Collection(CommandsCollectionName)
}

func (db *DataStoreMongo) devices() *mongo.Collection {
	return db.client.Database(db.dbName).Collection(DevicesCollectionName)
}

// Migrate brings the database schema to DbVersion
func (db *DataStoreMongo) Migrate(ctx context.Context, automigrate bool) error {
	return Migrate(ctx, db.dbName, DbVersion, db.client, automigrate)
}

// Ping verifies the connection to the database
func (db *DataStoreMongo) Ping(ctx context.Context) error {
	res := db.client.Database(db.dbName).RunCommand(ctx, bson.M{"ping": 1})
	return res.Err()
}

// InsertCommand stores a new command
func (db *DataStoreMongo) InsertCommand(ctx context.Context, cmd *model.Command) error {
	if cmd.Value == nil {
		return errors.New("mongo: command without value")
	}
	doc := commandDoc{
		ID:         cmd.ID,
		Seq:        primitive.NewObjectID(),
		DeviceID:   cmd.DeviceID,
		Type:       cmd.Type,
		Value:      cmd.Value.Key(),
		Status:     cmd.Status,
		RetryCount: cmd.RetryCount,
		CreatedAt:  cmd.CreatedAt,
	}
	_, err := db.commands().InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicatePendingCommand
	}
	return err
}

// GetCommand returns a command, or nil if it does not exist
func (db *DataStoreMongo) GetCommand(ctx context.Context, commandID string) (*model.Command, error) {
	var doc commandDoc
	err := db.commands().FindOne(ctx, bson.M{"_id": commandID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return doc.command()
}

func commandQuery(filter model.CommandFilter) bson.M {
	query := bson.M{}
	if filter.DeviceID != "" {
		query["device_id"] = filter.DeviceID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

var commandOrder = bson.D{
	{Key: "created_at", Value: 1},
	{Key: "seq", Value: 1},
}

// FindCommand returns the oldest command matching the filter, or nil
func (db *DataStoreMongo) FindCommand(ctx context.Context, filter model.CommandFilter) (*model.Command, error) {
	findOpts := mopts.FindOne().SetSort(commandOrder)

	var doc commandDoc
	err := db.commands().FindOne(ctx, commandQuery(filter), findOpts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return doc.command()
}

// ListCommands returns the commands matching the filter, oldest first
func (db *DataStoreMongo) ListCommands(ctx context.Context, filter model.CommandFilter) ([]model.Command, error) {
	findOpts := mopts.Find().SetSort(commandOrder)
	cur, err := db.commands().Find(ctx, commandQuery(filter), findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	commands := []model.Command{}
	for cur.Next(ctx) {
		var doc commandDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		cmd, err := doc.command()
		if err != nil {
			return nil, err
		}
		commands = append(commands, *cmd)
	}
	return commands, cur.Err()
}

// UpdateCommandStatus moves a command from one status to another
func (db *DataStoreMongo) UpdateCommandStatus(
	ctx context.Context,
	commandID string,
	from, to model.CommandStatus,
) (bool, error) {
	res, err := db.commands().UpdateOne(ctx,
		bson.M{"_id": commandID, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// UpsertDevicePing records a poll, creating the device on first contact
func (db *DataStoreMongo) UpsertDevicePing(ctx context.Context, deviceID string, ts time.Time) error {
	updateOpts := mopts.Update().SetUpsert(true)
	_, err := db.devices().UpdateOne(ctx,
		bson.M{"_id": deviceID},
		bson.M{
			"$set": bson.M{
				"status":       model.DeviceStatusOnline,
				"last_ping_at": ts,
			},
			"$setOnInsert": bson.M{"current_stat": bson.M{}},
		},
		updateOpts,
	)
	return err
}

// GetDevice returns a device, or nil if it does not exist
func (db *DataStoreMongo) GetDevice(ctx context.Context, deviceID string) (*model.Device, error) {
	var doc deviceDoc
	err := db.devices().FindOne(ctx, bson.M{"_id": deviceID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return doc.device(), nil
}

// ListDevices returns the devices matching the filter
func (db *DataStoreMongo) ListDevices(ctx context.Context, filter model.DeviceFilter) ([]model.Device, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	cur, err := db.devices().Find(ctx, query,
		mopts.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	devices := []model.Device{}
	for cur.Next(ctx) {
		var doc deviceDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		devices = append(devices, *doc.device())
	}
	return devices, cur.Err()
}

// SetDeviceOffline marks an online device offline unless it pinged after
// the cutoff
func (db *DataStoreMongo) SetDeviceOffline(ctx context.Context, deviceID string, cutoff time.Time) (bool, error) {
	res, err := db.devices().UpdateOne(ctx,
		bson.M{
			"_id":          deviceID,
			"status":       model.DeviceStatusOnline,
			"last_ping_at": bson.M{"$lte": cutoff},
		},
		bson.M{"$set": bson.M{"status": model.DeviceStatusOffline}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Close disconnects the client
func (db *DataStoreMongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.client.Disconnect(ctx)
}
