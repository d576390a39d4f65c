package bitwarden

// Vault states reported by "bw status".
const (
	StatusUnauthenticated = "unauthenticated"
	StatusLocked          = "locked"
	StatusUnlocked        = "unlocked"
)

// Status is the decoded output of "bw status".
type Status struct {
	ServerURL string `json:"serverUrl"`
	LastSync  string `json:"lastSync"`
	UserEmail string `json:"userEmail"`
	UserID    string `json:"userId"`
	Status    string `json:"status"`
}

// Authenticated reports whether a login is stored, whether or not the vault is unlocked.
func (s *Status) Authenticated() bool {
	return s.Status != "" && s.Status != StatusUnauthenticated
}

// Login holds the login fields of an item. Only the password is used.
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Item is a vault entry as listed by "bw list items".
type Item struct {
	ID             string   `json:"id"`
	OrganizationID *string  `json:"organizationId"`
	FolderID       *string  `json:"folderId"`
	CollectionIDs  []string `json:"collectionIds"`
	Type           int      `json:"type"`
	Name           string   `json:"name"`
	Notes          *string  `json:"notes"`
	Login          *Login   `json:"login"`
}

// SecretValue returns the notes when present and non-empty, else the login
// password, else an empty string.
func (i Item) SecretValue() string {
	if i.Notes != nil && *i.Notes != "" {
		return *i.Notes
	}
	if i.Login != nil {
		return i.Login.Password
	}
	return ""
}

// Group is a collection or folder. The built-in "No Folder" entry has no ID.
type Group struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}
