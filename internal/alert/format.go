package alert

import (
	"fmt"
	"strings"
)

// Color constants for notification severity.
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#2196f3"
	ColorWarning = "#ff9800"
	ColorError   = "#e53935"
)

// SeverityColor maps a severity string to a sidebar color.
func SeverityColor(severity string) string {
	switch severity {
	case "success":
		return ColorSuccess
	case "info":
		return ColorInfo
	case "warning":
		return ColorWarning
	case "error":
		return ColorError
	default:
		return ColorInfo
	}
}

// FormatOffline formats a device going offline.
func FormatOffline(deviceID, providerName, state string) Message {
	body := fmt.Sprintf("Provider: %s", providerName)
	if state != "" {
		body += fmt.Sprintf("\nState: %s", state)
	}
	return Message{
		Title:    fmt.Sprintf("Device %s offline", deviceID),
		Body:     body,
		Severity: "warning",
	}
}

// FormatRecovered formats a device coming back online.
func FormatRecovered(deviceID, providerName string) Message {
	return Message{
		Title:    fmt.Sprintf("Device %s back online", deviceID),
		Body:     fmt.Sprintf("Provider: %s", providerName),
		Severity: "success",
	}
}

// FormatDigest formats the daily activity summary.
func FormatDigest(d Digest) Message {
	var lines []string
	lines = append(lines, fmt.Sprintf("**Conversations**: %d chatbot, %d flow bot", d.ChatThreads, d.BotThreads))
	lines = append(lines, fmt.Sprintf("**New prospects**: %d in the last 24h", d.NewProspects))
	lines = append(lines, fmt.Sprintf("**Stage rules**: %d configured", d.Rules))
	lines = append(lines, fmt.Sprintf("**Devices**: %d/%d online", d.DevicesOnline, d.DevicesTotal))
	if d.HumanTakeover > 0 {
		lines = append(lines, fmt.Sprintf("**Human takeover**: %d threads waiting", d.HumanTakeover))
	}

	severity := "info"
	if d.DevicesTotal > 0 && d.DevicesOnline < d.DevicesTotal {
		severity = "warning"
	}

	return Message{
		Title:    "Switchboard daily digest",
		Body:     strings.Join(lines, "\n"),
		Severity: severity,
	}
}
