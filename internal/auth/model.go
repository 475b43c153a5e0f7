package auth

// User is a decrypted account record. JSON field names follow the
// application's data format (the UI speaks Portuguese).
//
// Senha carries a plaintext password only in memory on its way into the
// hasher; setPassword blanks it before the record is sealed, so only the
// argon2id hash and salt ever reach storage.
type User struct {
	ID    string `json:"id"`
	Nome  string `json:"nome,omitempty"`
	Email string `json:"email"`
	Senha string `json:"-"`

	PasswordHash string `json:"senha_hash,omitempty"`
	PasswordSalt string `json:"senha_salt,omitempty"`
}

// SessionUser is the plaintext-subset of User kept inside the (encrypted)
// session entry.
type SessionUser struct {
	ID    string `json:"id"`
	Nome  string `json:"nome,omitempty"`
	Email string `json:"email"`
}

// Session is the persisted login state. Absence means unauthenticated.
type Session struct {
	User  SessionUser `json:"user"`
	Token string      `json:"token"`
}

// LoginResult is what Login reports back to the UI.
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
