package registry

import (
	"encoding/json"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/utils"
	"github.com/pkg/errors"
)

// Tuya category of light bulbs.
const bulbCategory = "dj"

// Single entry of a tinytuya devices file.
type deviceEntry struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Key      string      `json:"key"`
	IP       string      `json:"ip"`
	Version  jsonVersion `json:"version"`
	Category *string     `json:"category"`
}

// Version is written either as a string or as a number.
type jsonVersion string

// UnmarshalJSON accepts "3.3" and 3.3.
func (v *jsonVersion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = jsonVersion(strings.TrimSpace(s))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrap(err, "wrong version")
	}

	*v = jsonVersion(strconv.FormatFloat(f, 'f', 1, 64))
	return nil
}

// Loads bulbs from a devices file.
func (r *registry) loadDevices(file string, defaultVersion string) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", file)
	}

	entries := make([]*deviceEntry, 0)
	if err := json.Unmarshal(data, &entries); err != nil {
		return errors.Wrapf(err, "failed to parse %s", file)
	}

	for _, v := range entries {
		if nil != v.Category && bulbCategory != *v.Category {
			continue
		}

		name := utils.NormalizeBulbName(v.Name)
		if "" == name || "" == v.ID {
			r.logger.Warn("Skipping device without name or ID", common.LogSystemToken, logSystem,
				common.LogDeviceIDToken, v.ID)
			continue
		}

		if "" == v.IP {
			r.logger.Warn("Skipping device without IP address", common.LogSystemToken, logSystem,
				common.LogBulbToken, name, common.LogDeviceIDToken, v.ID)
			continue
		}

		version := string(v.Version)
		if "" == version {
			version = defaultVersion
		}

		if _, ok := r.devices[name]; ok {
			r.logger.Warn("Duplicate bulb name, last one wins", common.LogSystemToken, logSystem,
				common.LogBulbToken, name)
		}

		r.devices[name] = &providers.DeviceInfo{
			Name:     name,
			ID:       v.ID,
			Address:  v.IP,
			LocalKey: v.Key,
			Version:  version,
		}
	}

	if 0 == len(r.devices) {
		return &ErrNoDevices{File: file}
	}

	r.logger.Info("Loaded bulbs", common.LogSystemToken, logSystem, common.LogFileToken, file,
		"count", strconv.Itoa(len(r.devices)))
	return nil
}
