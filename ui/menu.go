package ui

import "github.com/yllada/mulltray/vpn"

// Menu labels.
const (
	LabelChooseLocation = "Choose location"
	LabelConnect        = "Connect"
	LabelDisconnect     = "Disconnect"
)

// Commander receives menu actions.
type Commander interface {
	Connect()
	Disconnect()
	SetLocation(target vpn.Target)
}

// MenuItem is one entry of a menu tree. Submenu entries have children and
// no action.
type MenuItem struct {
	Label    string
	Enabled  bool
	Submenu  bool
	Children []*MenuItem

	activate func()
}

// Trigger runs the item's action. Disabled items and submenus do nothing.
func (i *MenuItem) Trigger() {
	if i == nil || !i.Enabled || i.activate == nil {
		return
	}
	i.activate()
}

// MenuTree is a render-ready menu. It is built fresh for each render and
// never updated in place.
type MenuTree struct {
	Items []*MenuItem
}

// Find returns the first item with the given label, searching depth first,
// or nil.
func (t MenuTree) Find(label string) *MenuItem {
	return findItem(t.Items, label)
}

func findItem(items []*MenuItem, label string) *MenuItem {
	for _, item := range items {
		if item.Label == label {
			return item
		}
		if found := findItem(item.Children, label); found != nil {
			return found
		}
	}
	return nil
}

// buildMenu derives the menu for status from the catalog. The location
// submenu has one submenu per region holding every relay of that region,
// flattened across cities.
func buildMenu(status vpn.Status, catalog *vpn.LocationCatalog, cmd Commander) MenuTree {
	locations := &MenuItem{Label: LabelChooseLocation, Enabled: true, Submenu: true}
	for _, region := range catalog.Regions() {
		regionItem := &MenuItem{Label: region.Name, Enabled: true, Submenu: true}
		for _, city := range region.Cities {
			for _, relay := range city.Relays {
				target := vpn.Target{Country: region.Code, City: city.Code, Hostname: relay.Hostname}
				regionItem.Children = append(regionItem.Children, &MenuItem{
					Label:    relay.Hostname,
					Enabled:  true,
					activate: func() { cmd.SetLocation(target) },
				})
			}
		}
		locations.Children = append(locations.Children, regionItem)
	}

	return MenuTree{Items: []*MenuItem{
		locations,
		{Label: LabelConnect, Enabled: CanConnect(status), activate: cmd.Connect},
		{Label: LabelDisconnect, Enabled: CanDisconnect(status), activate: cmd.Disconnect},
	}}
}
