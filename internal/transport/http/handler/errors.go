package handler

const (
	errInternalServer     = "Server error"
	errInvalidBody        = "Invalid request body"
	errUserExists         = "User already registered"
	errInvalidCredentials = "Invalid email or password"

	errInvalidNoteID = "Invalid note id"
	errInvalidUserID = "Invalid user id"
	errNoteNotFound  = "Note not found."
	errNoNotesFound  = "No notes found for this user"
	errNotAuthorized = "Not authorized."
	errUnauthorized  = "Unauthorized"
	errCreateNote    = "Failed to create note."
	errUpdateNote    = "Failed to update note."
	errDeleteNote    = "Failed to delete note."
	errListNotes     = "Failed to fetch notes."

	msgUserCreated  = "User registered successfully"
	msgLoggedOut    = "Logged out successfully"
	msgNoteDeleted  = "Note deleted successfully."
	msgLoginSuccess = "Welcome %s"
)
