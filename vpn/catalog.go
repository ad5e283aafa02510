package vpn

import (
	"sort"

	"github.com/yllada/mulltray/daemon"
)

// Region is a selectable country.
type Region struct {
	Name   string
	Code   string
	Cities []City
}

// City groups the selectable relays of one city.
type City struct {
	Name   string
	Code   string
	Relays []Relay
}

// Relay is a selectable server.
type Relay struct {
	Hostname     string
	EndpointType daemon.RelayType
}

// Target is a location selection: region code plus optional city code and
// hostname.
type Target struct {
	Country  string
	City     string
	Hostname string
}

// Constraint converts the target to the daemon's location constraint.
func (t Target) Constraint() daemon.LocationConstraint {
	return daemon.LocationConstraint{Country: t.Country, City: t.City, Hostname: t.Hostname}
}

// LocationCatalog is an immutable, ordered snapshot of selectable locations.
type LocationCatalog struct {
	regions []Region
}

// NewCatalog builds a catalog from the daemon's relay list, keeping only
// relays of the supported type. Regions are sorted by name using byte-wise
// comparison; cities and relays keep the daemon's order. The result shares
// no memory with list.
func NewCatalog(list *daemon.RelayList, supported daemon.RelayType) *LocationCatalog {
	c := &LocationCatalog{}
	if list == nil {
		return c
	}

	for _, country := range list.Countries {
		region := Region{Name: country.Name, Code: country.Code}
		for _, city := range country.Cities {
			out := City{Name: city.Name, Code: city.Code}
			for _, relay := range city.Relays {
				if relay.EndpointType != supported {
					continue
				}
				out.Relays = append(out.Relays, Relay{Hostname: relay.Hostname, EndpointType: relay.EndpointType})
			}
			region.Cities = append(region.Cities, out)
		}
		c.regions = append(c.regions, region)
	}

	sort.SliceStable(c.regions, func(i, j int) bool {
		return c.regions[i].Name < c.regions[j].Name
	})
	return c
}

// Regions returns the regions in display order. The caller must not modify
// the returned slice.
func (c *LocationCatalog) Regions() []Region {
	if c == nil {
		return nil
	}
	return c.regions
}

// Len returns the number of regions.
func (c *LocationCatalog) Len() int {
	return len(c.Regions())
}
