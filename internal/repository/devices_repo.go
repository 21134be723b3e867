package repository

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/kmalinin/dutywatch/pkg/model"
)

var _ DeviceRepository = &DeviceFileRepository{}

// DeviceFileRepository serves the device registry from a yaml file and
// reloads it on every write. Revocation edits take effect without restart.
type DeviceFileRepository struct {
	devicesFile string
	logger      *slog.Logger
	devices     map[string]*model.Device

	watcher *fsnotify.Watcher

	mx sync.RWMutex
}

func NewFileDeviceRepo(devicesFile string) *DeviceFileRepository {
	dm := &DeviceFileRepository{
		logger:      slog.Default().With("logger", "DeviceManager"),
		devicesFile: devicesFile,
		devices:     make(map[string]*model.Device),
		mx:          sync.RWMutex{},
	}

	if err := dm.loadDevicesFile(); err != nil {
		dm.logger.Error("error loading devices file", slog.Any("error", err))
	}

	return dm
}

func (r *DeviceFileRepository) loadDevicesFile() error {
	r.mx.Lock()
	defer r.mx.Unlock()

	if _, err := os.Lstat(r.devicesFile); os.IsNotExist(err) {
		// create empty file
		f, err := os.Create(r.devicesFile)
		if err != nil {
			return err
		}

		return f.Close()
	}

	dat, err := os.ReadFile(r.devicesFile)
	if err != nil {
		return err
	}

	devices := make([]*model.Device, 0)

	if err := yaml.Unmarshal(dat, &devices); err != nil {
		return err
	}

	r.devices = make(map[string]*model.Device)

	for _, d := range devices {
		if d.DeviceID != "" {
			r.devices[d.DeviceID] = d
		}
	}

	return nil
}

func (r *DeviceFileRepository) Start() error {
	var err error
	r.watcher, err = fsnotify.NewWatcher()

	if err != nil {
		return err
	}

	if err := r.watcher.Add(r.devicesFile); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-r.watcher.Events:
				if !ok {
					return
				}

				r.logger.Debug(fmt.Sprintf("event: %v", event))

				if event.Has(fsnotify.Write) && event.Name == r.devicesFile {
					r.logger.Info("devices file is modified, reloading")

					if err := r.loadDevicesFile(); err != nil {
						r.logger.Error("error", slog.Any("error", err))
					}
				}
			case err, ok := <-r.watcher.Errors:
				if !ok {
					return
				}

				r.logger.Error("error", slog.Any("error", err))
			}
		}
	}()

	return nil
}

func (r *DeviceFileRepository) Stop() {
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
}

func (r *DeviceFileRepository) Get(deviceID string) *model.Device {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return r.devices[deviceID]
}

func (r *DeviceFileRepository) ForEach(f func(d *model.Device) bool) {
	r.mx.RLock()
	defer r.mx.RUnlock()

	for _, d := range r.devices {
		if !f(d) {
			return
		}
	}
}

func (r *DeviceFileRepository) IsRevoked(deviceID string) bool {
	return r.Get(deviceID).IsRevoked()
}
