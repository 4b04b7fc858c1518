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

package server

import (
	"testing"
	"time"

	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/stretchr/testify/assert"

	dconfig "github.com/mendersoftware/devicecommands/config"
	"github.com/mendersoftware/devicecommands/sweeper"
)

func newTestConfig(t *testing.T, settings map[string]interface{}) config.Reader {
	conf := config.Config
	for _, d := range dconfig.Defaults {
		conf.SetDefault(d.Key, d.Value)
	}
	for key, value := range settings {
		conf.Set(key, value)
	}
	t.Cleanup(func() {
		for key := range settings {
			conf.Set(key, nil)
		}
	})
	return conf
}

func TestAppConfigDefaults(t *testing.T) {
	conf := newTestConfig(t, nil)

	appConf := AppConfig(conf)
	assert.Equal(t, 5*time.Minute, appConf.DeviceOfflineThreshold)
	assert.Equal(t, 10*time.Minute, appConf.CommandExpiryThreshold)
	assert.Equal(t, sweeper.DefaultInterval, SweepInterval(conf))
	assert.Empty(t, AllowedOrigins(conf))
}

func TestAppConfigOverrides(t *testing.T) {
	conf := newTestConfig(t, map[string]interface{}{
		dconfig.SettingDeviceOfflineMinutes: 2,
		dconfig.SettingCommandExpireMinutes: 30,
		dconfig.SettingSweepIntervalSeconds: 15,
		dconfig.SettingCORSAllowedOrigins:   "https://a.example.com, https://b.example.com",
	})

	appConf := AppConfig(conf)
	assert.Equal(t, 2*time.Minute, appConf.DeviceOfflineThreshold)
	assert.Equal(t, 30*time.Minute, appConf.CommandExpiryThreshold)
	assert.Equal(t, 15*time.Second, SweepInterval(conf))
	assert.Equal(t, []string{
		"https://a.example.com",
		"https://b.example.com",
	}, AllowedOrigins(conf))
}

func TestConnectNATSDisabled(t *testing.T) {
	conf := newTestConfig(t, map[string]interface{}{
		dconfig.SettingNatsURI: "",
	})

	nc, err := ConnectNATS(conf)
	assert.NoError(t, err)
	assert.Nil(t, nc)
}
