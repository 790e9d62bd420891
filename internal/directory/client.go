// Package directory talks to the Active Directory server that holds the
// specialist and requester accounts.
package directory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"github.com/mintickets/helpdesk/internal/config"
)

// Profile holds the attributes returned for an authenticated specialist.
type Profile struct {
	Username       string  `json:"username"`
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	Department     string  `json:"department"`
	Title          string  `json:"title"`
	State          string  `json:"state"`
	AccountExpires *string `json:"accountExpires"`
}

// User is a directory account entry from the general listing.
type User struct {
	Username   string   `json:"username"`
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Groups     []string `json:"groups"`
}

// Directory abstracts the LDAP server so callers can be tested and so the
// redis cache can wrap the listings.
type Directory interface {
	Authenticate(ctx context.Context, username, password string) (*Profile, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListSpecialists(ctx context.Context) ([]Profile, error)
}

// Client is the LDAP-backed Directory implementation.
type Client struct {
	cfg    config.LDAPConfig
	logger *zap.Logger
}

// NewClient builds a directory client from configuration.
func NewClient(cfg config.LDAPConfig, logger *zap.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// userAccountControl values accepted as enabled accounts: 512 is a normal
// enabled account, 66048 is enabled with a non-expiring password.
const (
	enabledAccountFilter = "(|(userAccountControl=512)(userAccountControl=66048))"
	listAttributes       = "cn,displayName,mail,sAMAccountName,department,title,memberOf"
)

// Authenticate verifies a specialist's credentials: an admin bind locates the
// enabled account, then a bind as the user proves the password. Returns nil
// profile (no error) when the account is missing, disabled, or the password
// is wrong, matching the sink-style contract of the login endpoint.
func (c *Client) Authenticate(_ context.Context, username, password string) (*Profile, error) {
	conn, err := c.adminConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	filter := fmt.Sprintf(
		"(&(objectClass=user)(objectCategory=person)(sAMAccountName=%s)(userAccountControl=512))",
		ldap.EscapeFilter(username),
	)
	result, err := conn.Search(c.searchRequest(filter,
		"cn", "displayName", "mail", "sAMAccountName", "department", "title", "st", "accountExpires"))
	if err != nil {
		return nil, fmt.Errorf("directory search: %w", err)
	}
	if len(result.Entries) == 0 {
		return nil, nil
	}
	entry := result.Entries[0]

	userConn, err := ldap.DialURL(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("directory dial: %w", err)
	}
	defer userConn.Close()
	if err := userConn.Bind(c.principal(username), password); err != nil {
		c.logger.Debug("specialist bind rejected", zap.String("username", username))
		return nil, nil
	}

	profile := profileFromEntry(entry)
	profile.AccountExpires = ConvertWindowsTimestamp(entry.GetAttributeValue("accountExpires"))
	return &profile, nil
}

// ListUsers returns every enabled directory account.
func (c *Client) ListUsers(_ context.Context) ([]User, error) {
	conn, err := c.adminConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	filter := "(&(objectClass=user)(objectCategory=person)" + enabledAccountFilter + ")"
	result, err := conn.Search(c.searchRequest(filter, strings.Split(listAttributes, ",")...))
	if err != nil {
		return nil, fmt.Errorf("directory search: %w", err)
	}

	users := make([]User, 0, len(result.Entries))
	for _, entry := range result.Entries {
		users = append(users, User{
			Username:   entry.GetAttributeValue("sAMAccountName"),
			FullName:   entry.GetAttributeValue("displayName"),
			Email:      entry.GetAttributeValue("mail"),
			Department: entry.GetAttributeValue("department"),
			Groups:     entry.GetAttributeValues("memberOf"),
		})
	}
	return users, nil
}

// ListSpecialists returns enabled accounts whose state code marks them as
// helpdesk specialists.
func (c *Client) ListSpecialists(_ context.Context) ([]Profile, error) {
	conn, err := c.adminConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	states := make([]string, 0, len(c.cfg.SpecialistStates))
	for _, state := range c.cfg.SpecialistStates {
		states = append(states, fmt.Sprintf("(st=%s)", ldap.EscapeFilter(state)))
	}
	filter := "(&(objectClass=user)(objectCategory=person)" + enabledAccountFilter +
		"(|" + strings.Join(states, "") + "))"
	result, err := conn.Search(c.searchRequest(filter,
		"cn", "displayName", "mail", "sAMAccountName", "department", "title", "st"))
	if err != nil {
		return nil, fmt.Errorf("directory search: %w", err)
	}

	specialists := make([]Profile, 0, len(result.Entries))
	for _, entry := range result.Entries {
		specialists = append(specialists, profileFromEntry(entry))
	}
	return specialists, nil
}

func (c *Client) adminConn() (*ldap.Conn, error) {
	conn, err := ldap.DialURL(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("directory dial: %w", err)
	}
	if err := conn.Bind(c.principal(c.cfg.BindUsername), c.cfg.BindPassword); err != nil {
		conn.Close()
		return nil, fmt.Errorf("directory bind: %w", err)
	}
	return conn, nil
}

func (c *Client) principal(username string) string {
	if strings.Contains(username, "@") {
		return username
	}
	return username + "@" + c.cfg.UserDomain
}

func (c *Client) searchRequest(filter string, attributes ...string) *ldap.SearchRequest {
	return ldap.NewSearchRequest(
		c.cfg.SearchBase,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		filter,
		attributes,
		nil,
	)
}

func profileFromEntry(entry *ldap.Entry) Profile {
	return Profile{
		Username:   entry.GetAttributeValue("sAMAccountName"),
		FullName:   entry.GetAttributeValue("displayName"),
		Email:      entry.GetAttributeValue("mail"),
		Department: entry.GetAttributeValue("department"),
		Title:      entry.GetAttributeValue("title"),
		State:      entry.GetAttributeValue("st"),
	}
}

// windowsEpoch is January 1, 1601 UTC; AD stores accountExpires as
// 100-nanosecond intervals since then.
var windowsEpoch = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)

const neverExpires = int64(9223372036854775807)

// ConvertWindowsTimestamp turns an accountExpires value into a YYYY-MM-DD
// date one day before the stored expiry, or nil when the account never
// expires. The minus-one-day shift keeps the reported date inside the
// account's valid range.
func ConvertWindowsTimestamp(raw string) *string {
	if raw == "" {
		return nil
	}
	intervals, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	if intervals == 0 || intervals == neverExpires {
		return nil
	}
	expires := windowsEpoch.Add(time.Duration(intervals/10) * time.Microsecond)
	formatted := expires.AddDate(0, 0, -1).Format("2006-01-02")
	return &formatted
}
