// Package ipinfo implements a client for the IP information lookup endpoint.
package ipinfo

// Info is the metadata the backend reports for an IP address.
type Info struct {
	IP        string `json:"ip"`
	Subnet    string `json:"subnet"`
	Gateway   string `json:"gateway"`
	Class     string `json:"class"`
	IsPrivate bool   `json:"is_private"`
}

// Type names the address scope as shown to the user.
func (i *Info) Type() string {
	if i.IsPrivate {
		return "Private"
	}
	return "Public"
}
