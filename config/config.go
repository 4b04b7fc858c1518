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

package config

import (
	"github.com/mendersoftware/go-lib-micro/config"
)

const (
	// SettingListen is the config key for the listen address
	SettingListen = "listen"
	// SettingListenDefault is the default value for the listen address
	SettingListenDefault = ":8080"

	// SettingCORSAllowedOrigins is the config key for the list of origins
	// allowed to call the API from a browser; empty allows all
	SettingCORSAllowedOrigins = "cors_allowed_origins"

	// SettingStoreDriver is the config key for the storage backend
	SettingStoreDriver = "store_driver"
	// SettingStoreDriverDefault is the default storage backend
	SettingStoreDriverDefault = StoreDriverMongo

	StoreDriverMongo  = "mongo"
	StoreDriverSQLite = "sqlite"

	// SettingMongo is the config key for the mongo URL
	SettingMongo = "mongo_url"
	// SettingMongoDefault is the default value for the mongo URL
	SettingMongoDefault = "mongodb://localhost:27017"

	// SettingDbName is the config key for the mongo database name
	SettingDbName = "mongo_dbname"
	// SettingDbNameDefault is the default value for the mongo database name
	SettingDbNameDefault = "devicecommands"

	// SettingDbSSL is the config key for the mongo SSL setting
	SettingDbSSL = "mongo_ssl"
	// SettingDbSSLDefault is the default value for the mongo SSL setting
	SettingDbSSLDefault = false

	// SettingDbSSLSkipVerify is the config key for the mongo SSL skip verify setting
	SettingDbSSLSkipVerify = "mongo_ssl_skipverify"
	// SettingDbSSLSkipVerifyDefault is the default value for the mongo SSL skip verify setting
	SettingDbSSLSkipVerifyDefault = false

	// SettingDbUsername is the config key for the mongo username
	SettingDbUsername = "mongo_username"

	// SettingDbPassword is the config key for the mongo password
	SettingDbPassword = "mongo_password"

	// SettingDbConnectTimeout is the config key for how long to keep
	// retrying the initial mongo connection, in seconds
	SettingDbConnectTimeout = "mongo_connect_timeout_seconds"
	// SettingDbConnectTimeoutDefault is the default mongo connect timeout
	SettingDbConnectTimeoutDefault = 60

	// SettingSQLitePath is the config key for the sqlite database file
	SettingSQLitePath = "sqlite_path"
	// SettingSQLitePathDefault is the default sqlite database file
	SettingSQLitePathDefault = "devicecommands.db"

	// SettingNatsURI is the config key for the nats uri; events are not
	// published when it is empty
	SettingNatsURI = "nats_uri"
	// SettingNatsURIDefault is the default value for the nats uri
	SettingNatsURIDefault = ""

	// SettingDebugLog is the config key for the turning on the debug log
	SettingDebugLog = "debug_log"
	// SettingDebugLogDefault is the default value for the debug log enabling
	SettingDebugLogDefault = false

	// SettingDeviceOfflineMinutes is the config key for the silence after
	// which a device is marked offline
	SettingDeviceOfflineMinutes = "device_offline_minutes"
	// SettingDeviceOfflineMinutesDefault is the default offline threshold
	SettingDeviceOfflineMinutesDefault = 5

	// SettingCommandExpireMinutes is the config key for the age after which
	// a pending command expires
	SettingCommandExpireMinutes = "command_expire_minutes"
	// SettingCommandExpireMinutesDefault is the default expiry threshold
	SettingCommandExpireMinutesDefault = 10

	// SettingSweepIntervalSeconds is the config key for the sweeper period
	SettingSweepIntervalSeconds = "sweep_interval_seconds"
	// SettingSweepIntervalSecondsDefault is the default sweeper period
	SettingSweepIntervalSecondsDefault = 60
)

var (
	// Defaults are the default configuration settings
	Defaults = []config.Default{
		{Key: SettingListen, Value: SettingListenDefault},
		{Key: SettingStoreDriver, Value: SettingStoreDriverDefault},
		{Key: SettingMongo, Value: SettingMongoDefault},
		{Key: SettingDbName, Value: SettingDbNameDefault},
		{Key: SettingDbSSL, Value: SettingDbSSLDefault},
		{Key: SettingDbSSLSkipVerify, Value: SettingDbSSLSkipVerifyDefault},
		{Key: SettingDbConnectTimeout, Value: SettingDbConnectTimeoutDefault},
		{Key: SettingSQLitePath, Value: SettingSQLitePathDefault},
		{Key: SettingNatsURI, Value: SettingNatsURIDefault},
		{Key: SettingDebugLog, Value: SettingDebugLogDefault},
		{Key: SettingDeviceOfflineMinutes, Value: SettingDeviceOfflineMinutesDefault},
		{Key: SettingCommandExpireMinutes, Value: SettingCommandExpireMinutesDefault},
		{Key: SettingSweepIntervalSeconds, Value: SettingSweepIntervalSecondsDefault},
	}
)
