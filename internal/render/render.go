package render

import (
	"strconv"

	"github.com/pterm/pterm"

	"github.com/kapu/tautulli-snitch-go/internal/constants"
	"github.com/kapu/tautulli-snitch-go/internal/domain"
	"github.com/kapu/tautulli-snitch-go/internal/util"
)

// Summary prints the per-user summary table.
func Summary(summaries []domain.UserSummary) {
	if len(summaries) == 0 {
		pterm.Warning.Println("No results to display (0 users).")
		return
	}

	data := pterm.TableData{{"User", "Devices", "Unique IPs"}}
	for _, row := range summaries {
		data = append(data, []string{
			util.TruncateString(row.Name, constants.DisplayConfig.MaxNameLength),
			strconv.Itoa(row.DeviceCount),
			strconv.Itoa(row.UniqueIPCount),
		})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Info.Printfln("%d user(s)", len(summaries))
}

// Details prints one section per matched user: the ranked IP table and the
// ranked device table.
func Details(details []domain.UserDetail, withCountry bool) {
	for _, d := range details {
		pterm.DefaultSection.Printfln("%s (ID: %d)", d.User.Name, d.User.ID)
		pterm.Info.Printfln("History rows loaded: %d", d.TotalRows)

		renderIPTable(d.IPs, withCountry)
		renderDeviceTable(d.Devices)
	}
}

func renderIPTable(entries []domain.IPEntry, withCountry bool) {
	if len(entries) == 0 {
		pterm.Println("IP addresses: none recorded")
		return
	}

	header := []string{"IP address", "Plays", "Last seen"}
	if withCountry {
		header = append(header, "Country")
	}
	data := pterm.TableData{header}
	for _, e := range entries {
		row := []string{e.IP, strconv.Itoa(e.PlayCount), util.FormatEpoch(e.LastSeen)}
		if withCountry {
			row = append(row, e.Country)
		}
		data = append(data, row)
	}

	pterm.Println("IP addresses (by plays):")
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderDeviceTable(entries []domain.DeviceEntry) {
	if len(entries) == 0 {
		pterm.Println("Devices: none recorded")
		return
	}

	data := pterm.TableData{{"Device", "Plays", "Last seen"}}
	for _, e := range entries {
		data = append(data, []string{
			e.Key.Label(),
			strconv.Itoa(e.PlayCount),
			util.FormatEpoch(e.LastSeen),
		})
	}

	pterm.Println("Devices (by plays):")
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
