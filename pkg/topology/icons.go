package topology

import (
	"strconv"

	gocache "github.com/patrickmn/go-cache"
)

// iconCache memoizes successful icon loads so layers sharing an icon id, and
// reloads of the same manifest, decode each icon once.
type iconCache struct {
	loader IconLoader
	cache  *gocache.Cache
}

func newIconCache(loader IconLoader) *iconCache {
	return &iconCache{
		loader: loader,
		// no expiry and no janitor goroutine
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// load returns the icon for id. Failures are not cached.
func (c *iconCache) load(id int) (Icon, error) {
	key := strconv.Itoa(id)
	if icon, ok := c.cache.Get(key); ok {
		return icon, nil
	}

	icon, err := c.loader.LoadIcon(id)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, icon, gocache.NoExpiration)
	return icon, nil
}
