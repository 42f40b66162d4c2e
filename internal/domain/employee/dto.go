package employee

// ProfileUpdate is the body of PUT /employees/{id} and PUT /members/{loginId}.
type ProfileUpdate struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	PasswordHash string `json:"password_hash"`
}

// StatusUpdate is the body of the two status endpoints.
type StatusUpdate struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// ProfileUpdateFrom copies the editable fields of e.
func ProfileUpdateFrom(e Employee) ProfileUpdate {
	return ProfileUpdate{
		Name:         e.Name,
		Email:        e.Email,
		Mobile:       e.Mobile,
		PasswordHash: derefString(e.PasswordHash),
	}
}

// StatusUpdateFrom copies the current status of e, falling back to the
// vocabulary default when e has none.
func StatusUpdateFrom(e Employee, vocabulary StatusVocabulary) StatusUpdate {
	code := e.StatusCode()
	if code == "" {
		code = vocabulary.Default()
	}
	return StatusUpdate{
		Status: code,
		Note:   e.StatusNote(),
	}
}
