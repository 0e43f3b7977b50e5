// Copyright 2026 Northern.tech AS
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
	"strings"
	"time"

	"github.com/mendersoftware/go-lib-micro/config"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	dconfig "github.com/mendersoftware/devicefirmware/config"
	"github.com/mendersoftware/devicefirmware/model"
	"github.com/mendersoftware/devicefirmware/store"
	"github.com/mendersoftware/devicefirmware/utils"
)

const (
	// DevicesCollectionName refers to the name of the collection of stored devices
	DevicesCollectionName = "devices"

	// CountersCollectionName refers to the name of the collection holding
	// the device id sequence
	CountersCollectionName = "counters"

	// deviceIDCounter is the _id of the counter document backing device ids
	deviceIDCounter = "devices"
)

// SetupDataStore returns the mongo data store and optionally runs migrations
func SetupDataStore(automigrate bool) (*DataStoreMongo, error) {
	ctx := context.Background()
	dbClient, err := NewClient(ctx, config.Config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to db")
	}
	dbName := config.Config.GetString(dconfig.SettingDbName)
	err = Migrate(ctx, dbName, DbVersion, dbClient, automigrate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}
	dataStore := NewDataStoreWithClient(dbClient, config.Config)
	return dataStore, nil
}

func disconnectClient(parentCtx context.Context, client *mongo.Client) {
	ctx, cancel := context.WithTimeout(parentCtx, 1*time.Second)
	defer cancel()
	client.Disconnect(ctx)
}

// NewClient returns a mongo client
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
			Username: c.GetString(dconfig.SettingDbUsername),
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

	// Set writeconcern to acknowlage after write has propagated to the
	// mongod instance and commited to the file system journal.
	wc := writeconcern.New(writeconcern.W(1), writeconcern.J(true))
	clientOptions.SetWriteConcern(wc)

	// Set 10s timeout
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to connect to mongo server")
	}

	// Validate connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "Error reaching mongo server")
	}

	return client, nil
}

// DataStoreMongo is the data storage service
type DataStoreMongo struct {
	// client holds the reference to the client used to communicate with the
	// mongodb server.
	client *mongo.Client
	// dbName contains the name of the devicefirmware database.
	dbName string

	clock utils.Clock
}

// NewDataStoreWithClient initializes a DataStore object
func NewDataStoreWithClient(client *mongo.Client, c config.Reader) *DataStoreMongo {
	dbName := c.GetString(dconfig.SettingDbName)

	return &DataStoreMongo{
		client: client,
		dbName: dbName,
		clock:  utils.RealClock{},
	}
}

// Ping verifies the connection to the database
func (db *DataStoreMongo) Ping(ctx context.Context) error {
	res := db.client.Database(db.dbName).RunCommand(ctx, bson.M{"ping": 1})
	return res.Err()
}

func (db *DataStoreMongo) devices() *mongo.Collection {
	return db.client.Database(db.dbName).Collection(DevicesCollectionName)
}

// nextDeviceID increments and returns the device id sequence
func (db *DataStoreMongo) nextDeviceID(ctx context.Context) (int64, error) {
	coll := db.client.Database(db.dbName).Collection(CountersCollectionName)

	findOneAndUpdateOpts := &mopts.FindOneAndUpdateOptions{}
	findOneAndUpdateOpts.SetUpsert(true)
	findOneAndUpdateOpts.SetReturnDocument(mopts.After)
	res := coll.FindOneAndUpdate(ctx,
		bson.M{"_id": deviceIDCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		findOneAndUpdateOpts,
	)

	counter := struct {
		Seq int64 `bson:"seq"`
	}{}
	if err := res.Decode(&counter); err != nil {
		return 0, errors.Wrap(err, "failed to allocate device id")
	}
	return counter.Seq, nil
}

// InsertDevice allocates an id for the device and inserts the row
func (db *DataStoreMongo) InsertDevice(ctx context.Context, device *model.Device) error {
	id, err := db.nextDeviceID(ctx)
	if err != nil {
		return err
	}
	device.ID = id
	now := db.clock.Now().UTC()
	device.CreatedTs = now
	device.UpdatedTs = now

	_, err = db.devices().InsertOne(ctx, device)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicateDeviceName
		}
		return err
	}
	return nil
}

// GetDevice returns a device, or nil when the id is unknown
func (db *DataStoreMongo) GetDevice(ctx context.Context, deviceID int64) (*model.Device, error) {
	cur := db.devices().FindOne(ctx, bson.M{"_id": deviceID})

	device := &model.Device{}
	if err := cur.Decode(device); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return device, nil
}

// GetDeviceByName returns a device, or nil when the name is unknown
func (db *DataStoreMongo) GetDeviceByName(ctx context.Context, name string) (*model.Device, error) {
	cur := db.devices().FindOne(ctx, bson.M{"name": name})

	device := &model.Device{}
	if err := cur.Decode(device); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return device, nil
}

// ListDevices returns a page of device records, newest first
func (db *DataStoreMongo) ListDevices(ctx context.Context, page, perPage int64) ([]model.Device, error) {
	findOpts := mopts.Find().
		SetSort(bson.D{{Key: "created_ts", Value: -1}}).
		SetSkip((page - 1) * perPage).
		SetLimit(perPage)

	cur, err := db.devices().Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	devices := []model.Device{}
	if err := cur.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// ListBoards returns the distinct board types among registered devices
func (db *DataStoreMongo) ListBoards(ctx context.Context) ([]string, error) {
	values, err := db.devices().Distinct(ctx, "board", bson.M{})
	if err != nil {
		return nil, err
	}
	boards := make([]string, 0, len(values))
	for _, value := range values {
		if board, ok := value.(string); ok {
			boards = append(boards, board)
		}
	}
	return boards, nil
}

// SetDeviceVersion bumps latest_version and total_versions. The filter
// asserts the previously observed latest_version so a raced bump surfaces
// as ErrVersionConflict instead of a double write.
func (db *DataStoreMongo) SetDeviceVersion(
	ctx context.Context,
	deviceID int64,
	fromVersion, toVersion int,
	checksum string,
) error {
	res, err := db.devices().UpdateOne(ctx,
		bson.M{
			"_id":            deviceID,
			"latest_version": fromVersion,
		},
		bson.M{
			"$set": bson.M{
				"latest_version":  toVersion,
				"latest_checksum": checksum,
				"updated_ts":      db.clock.Now().UTC(),
			},
			"$inc": bson.M{"total_versions": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrVersionConflict
	}
	return nil
}

// SetDeviceChecksum records the checksum of the newest promoted artifact
func (db *DataStoreMongo) SetDeviceChecksum(ctx context.Context, deviceID int64, checksum string) error {
	res, err := db.devices().UpdateOne(ctx,
		bson.M{"_id": deviceID},
		bson.M{"$set": bson.M{
			"latest_checksum": checksum,
			"updated_ts":      db.clock.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrDeviceNotFound
	}
	return nil
}

// SetDeviceStatus persists a device-reported status. A transition into
// UPDATED also syncs curr_version to latest_version; the sync happens
// server-side in one update so no stale read can be written back.
func (db *DataStoreMongo) SetDeviceStatus(ctx context.Context, deviceID int64, status string) error {
	var update interface{}
	if status == model.DeviceStatusUpdated {
		update = bson.A{
			bson.M{"$set": bson.M{
				"status":       status,
				"curr_version": "$latest_version",
				"updated_ts":   "$$NOW",
			}},
		}
	} else {
		update = bson.M{
			"$set": bson.M{
				"status":     status,
				"updated_ts": db.clock.Now().UTC(),
			},
		}
	}

	res, err := db.devices().UpdateOne(ctx, bson.M{"_id": deviceID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrDeviceNotFound
	}
	return nil
}

// DeleteDevice deletes a device row
func (db *DataStoreMongo) DeleteDevice(ctx context.Context, deviceID int64) error {
	res, err := db.devices().DeleteOne(ctx, bson.M{"_id": deviceID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrDeviceNotFound
	}
	return nil
}

// Close disconnects the client
func (db *DataStoreMongo) Close() error {
	ctx := context.Background()
	disconnectClient(ctx, db.client)
	return nil
}

func (db *DataStoreMongo) dropDatabase() error {
	ctx := context.Background()
	err := db.client.Database(db.dbName).Drop(ctx)
	return err
}
