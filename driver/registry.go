package driver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

type InitFunc func() Driver

var (
	mu      sync.RWMutex
	drivers = make(map[string]InitFunc)
)

// Register makes a driver available by name. A second registration under
// the same name replaces the first.
func Register(name string, initFunc InitFunc) {
	mu.Lock()
	defer mu.Unlock()
	drivers[name] = initFunc
}

// Get returns a new instance of the driver registered under name.
// Names with a "digest+" prefix wrap the named inner driver with Digest.
func Get(name string) (Driver, error) {
	if name == "" {
		return nil, fmt.Errorf("no driver name given")
	}
	if inner, found := strings.CutPrefix(name, digestPrefix); found {
		d, err := Get(inner)
		if err != nil {
			return nil, err
		}
		return Digest(d), nil
	}
	mu.RLock()
	initFunc, exists := drivers[name]
	mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("driver %q not found or registered", name)
	}
	return initFunc(), nil
}

// ForExtension returns the registered driver that stores its snapshots
// under the given extension. The empty extension maps to the Var driver.
func ForExtension(ext string) (Driver, error) {
	if inner, found := strings.CutSuffix(ext, "."+digestExtension); found {
		d, err := ForExtension(inner)
		if err != nil {
			return nil, err
		}
		return Digest(d), nil
	}
	if ext == digestExtension {
		return Digest(Var{}), nil
	}
	for _, name := range Names() {
		d, err := Get(name)
		if err != nil {
			return nil, err
		}
		if d.Extension() == ext {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no driver registered for extension %q", ext)
}

// Names returns the sorted names of all registered drivers.
func Names() []string {
	mu.RLock()
	names := lo.Keys(drivers)
	mu.RUnlock()
	slices.Sort(names)
	return names
}

func init() {
	Register(Var{}.Name(), func() Driver { return Var{} })
	Register(Text{}.Name(), func() Driver { return Text{} })
	Register(JSON{}.Name(), func() Driver { return JSON{} })
	Register(XML{}.Name(), func() Driver { return XML{} })
	Register(YAML{}.Name(), func() Driver { return YAML{} })
	Register(Proto{}.Name(), func() Driver { return Proto{} })
}
