package upload

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Service is one anonymous file host.
type Service struct {
	Name      string
	URL       string
	FileField string
	Fields    map[string]string
	// ExpiresIn is a rough retention estimate shown next to the link.
	ExpiresIn string
	// parse extracts the link from a successful response body.
	parse func(body []byte) (string, error)
}

func plainLink(body []byte) (string, error) {
	link := strings.TrimSpace(string(body))
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return "", fmt.Errorf("invalid response: %q", truncate(link, 120))
	}
	return link, nil
}

func uguuLink(body []byte) (string, error) {
	var resp struct {
		Files []struct {
			URL string `json:"url"`
		} `json:"files"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid response: %v", err)
	}
	if len(resp.Files) == 0 {
		return "", fmt.Errorf("invalid response: no files returned")
	}
	return plainLink([]byte(resp.Files[0].URL))
}

var builtin = map[string]Service{
	"litterbox": {
		Name:      "litterbox",
		URL:       "https://litterbox.catbox.moe/resources/internals/api.php",
		FileField: "fileToUpload",
		Fields:    map[string]string{"reqtype": "fileupload", "time": "72h"},
		ExpiresIn: "3 days",
		parse:     plainLink,
	},
	"catbox": {
		Name:      "catbox",
		URL:       "https://catbox.moe/user/api.php",
		FileField: "fileToUpload",
		Fields:    map[string]string{"reqtype": "fileupload"},
		ExpiresIn: "2 weeks",
		parse:     plainLink,
	},
	"0x0": {
		Name:      "0x0",
		URL:       "https://0x0.st",
		FileField: "file",
		ExpiresIn: "30 days",
		parse:     plainLink,
	},
	"uguu": {
		Name:      "uguu",
		URL:       "https://uguu.se/upload",
		FileField: "files[]",
		ExpiresIn: "3 hours",
		parse:     uguuLink,
	},
}

// Lookup resolves configured service names. Unknown names are an error so a
// typo in UPLOAD_SERVICES is reported instead of silently ignored.
func Lookup(names []string) ([]Service, error) {
	var out []Service
	for _, name := range names {
		svc, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown upload service %q", name)
		}
		out = append(out, svc)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no upload services configured")
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
