// Package cli provides command-line access to the VPN daemon, so the tray's
// view of the connection can be checked and driven from a terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/daemon"
	"github.com/yllada/mulltray/ui"
	"github.com/yllada/mulltray/vpn"
)

var (
	styleBrand = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "30", Dark: "45"})
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"})
	styleValue = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"})
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})
	styleError = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "196"})
)

// statusStyle colours a status line by its icon.
func statusStyle(icon ui.IconID) lipgloss.Style {
	switch icon {
	case ui.IconConnected:
		return styleOK
	case ui.IconAcquiring:
		return styleWarn
	case ui.IconError:
		return styleError
	default:
		return styleValue
	}
}

// CLI runs one-shot commands against the daemon.
type CLI struct {
	link daemon.Link
	out  io.Writer
}

// New creates a CLI writing to out.
func New(link daemon.Link, out io.Writer) *CLI {
	return &CLI{link: link, out: out}
}

// Status prints the title and icon the tray would show.
func (c *CLI) Status(ctx context.Context) error {
	state, err := c.link.GetTunnelState(ctx)
	if err != nil {
		return fmt.Errorf("failed to get tunnel state: %w", err)
	}

	status := vpn.Project(state)
	icon := ui.IconFor(status)

	fmt.Fprintf(c.out, "%s %s\n", styleBrand.Render(common.AppName), statusStyle(icon).Render(ui.StatusText(status)))
	fmt.Fprintf(c.out, "  %s  %s\n", styleLabel.Render("Icon"), styleValue.Render(string(icon)))
	if status.Relay != nil && (status.Relay.Country != "" || status.Relay.City != "") {
		fmt.Fprintf(c.out, "  %s  %s\n", styleLabel.Render("Exit"), styleValue.Render(formatPlace(status.Relay)))
	}
	return nil
}

func formatPlace(relay *vpn.RelayInfo) string {
	switch {
	case relay.City != "" && relay.Country != "":
		return relay.City + ", " + relay.Country
	case relay.City != "":
		return relay.City
	default:
		return relay.Country
	}
}

// Locations prints the selectable relays in menu order.
func (c *CLI) Locations(ctx context.Context) error {
	relays, err := c.link.GetRelayLocations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get relay locations: %w", err)
	}

	catalog := vpn.NewCatalog(relays, daemon.RelayTypeWireGuard)
	if catalog.Len() == 0 {
		fmt.Fprintln(c.out, "No locations available.")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REGION\tCODE\tCITY\tHOSTNAME")
	fmt.Fprintln(w, "------\t----\t----\t--------")
	for _, region := range catalog.Regions() {
		for _, city := range region.Cities {
			for _, relay := range city.Relays {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", region.Name, region.Code, city.Code, relay.Hostname)
			}
		}
	}
	return w.Flush()
}

// Connect asks the daemon to connect and waits for the answer.
func (c *CLI) Connect(ctx context.Context) error {
	if err := c.link.ConnectTunnel(ctx); err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	fmt.Fprintln(c.out, "✓ Connect requested")
	return nil
}

// Disconnect asks the daemon to disconnect and waits for the answer.
func (c *CLI) Disconnect(ctx context.Context) error {
	if err := c.link.DisconnectTunnel(ctx); err != nil {
		return fmt.Errorf("disconnect failed: %w", err)
	}
	fmt.Fprintln(c.out, "✓ Disconnect requested")
	return nil
}

// SetLocation selects a location. City and hostname may be empty.
func (c *CLI) SetLocation(ctx context.Context, target vpn.Target) error {
	if target.Country == "" {
		return fmt.Errorf("a country code is required")
	}
	if err := c.link.SetLocation(ctx, target.Constraint()); err != nil {
		return fmt.Errorf("set location failed: %w", err)
	}

	where := target.Country
	if target.City != "" {
		where += "/" + target.City
	}
	if target.Hostname != "" {
		where += "/" + target.Hostname
	}
	fmt.Fprintf(c.out, "✓ Location set to %s\n", where)
	return nil
}
