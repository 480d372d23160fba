package models

// User is the authentication identity a [Profile] hangs off.
// Deleting a user deletes its profile.
type User struct {
	record
	username string
	email    string
}

// NewUser creates an unsaved [User].
func NewUser(username, email string) *User {
	return &User{record: newRecord(), username: username, email: email}
}

func (u *User) Username() string { return u.username }
func (u *User) SetUsername(name string) { u.username = name }
func (u *User) Email() string { return u.email }
func (u *User) SetEmail(email string) { u.email = email }

// Validate checks the identity fields.
func (u *User) Validate() error {
	v := &validator{}
	v.required("username", u.username).maxLen("username", u.username)
	v.maxLen("email", u.email)
	return v.err()
}

// Profile is the catalog-facing account of a [User]: the owner of playlists and, optionally, of albums.
type Profile struct {
	record
	userID      string
	displayName string
}

// NewProfile creates an unsaved [Profile] for the given user.
func NewProfile(userID, displayName string) *Profile {
	return &Profile{record: newRecord(), userID: userID, displayName: displayName}
}

func (p *Profile) UserID() string { return p.userID }
func (p *Profile) DisplayName() string { return p.displayName }
func (p *Profile) SetDisplayName(name string) { p.displayName = name }

// Validate checks the profile fields.
func (p *Profile) Validate() error {
	v := &validator{}
	v.required("user", p.userID)
	v.required("display_name", p.displayName).maxLen("display_name", p.displayName)
	return v.err()
}
