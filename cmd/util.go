// Copyright 2021-2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/penny-vault/pv-dca/config"
	"github.com/spf13/viper"
)

// loadProfile accepts either the path of a profile file or the name of a
// profile in the profiles directory
func loadProfile(name string) (*config.Profile, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml", ".yaml", ".yml":
		if _, err := os.Stat(name); err == nil {
			return config.LoadProfile(name)
		}
	}

	profiles, err := config.LoadProfiles(viper.GetString("profiles.dir"))
	if err != nil {
		return nil, err
	}

	return config.Find(profiles, name)
}
