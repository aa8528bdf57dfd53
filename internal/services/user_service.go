package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/daybook-app/daybook-backend/internal/database"
	"github.com/daybook-app/daybook-backend/internal/models"
)

const userColumns = `id, created_at, updated_at, username, email, password_hash,
	first_name, last_name, COALESCE(pin_code, ''), remind_pin,
	COALESCE(profile_image, ''), is_active, is_staff`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.Email,
		&u.PasswordHash, &u.FirstName, &u.LastName, &u.PinCode, &u.RemindPin,
		&u.ProfileImage, &u.IsActive, &u.IsStaff)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID loads an active account by id. Returns sql.ErrNoRows when the
// id does not resolve to a persisted row.
func GetUserByID(userID uuid.UUID) (*models.User, error) {
	row := database.PostgresDB.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active = TRUE
	`, userID)
	return scanUser(row)
}

// GetUserByEmail loads an active account by email (case-insensitive).
func GetUserByEmail(email string) (*models.User, error) {
	row := database.PostgresDB.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1) AND is_active = TRUE
	`, email)
	return scanUser(row)
}

// EmailTaken reports whether any account already uses the email.
func EmailTaken(email string) (bool, error) {
	var existing string
	err := database.PostgresDB.QueryRow(`
		SELECT email FROM users WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&existing)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UsernameTaken reports whether any account already uses the username.
func UsernameTaken(username string) (bool, error) {
	var existing string
	err := database.PostgresDB.QueryRow(`
		SELECT username FROM users WHERE LOWER(username) = LOWER($1)
	`, username).Scan(&existing)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateUser persists a new account and returns it.
func CreateUser(username, email, passwordHash, firstName, lastName string) (*models.User, error) {
	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		RemindPin:    true,
		IsActive:     true,
	}

	_, err := database.PostgresDB.Exec(`
		INSERT INTO users (id, created_at, updated_at, username, email, password_hash, first_name, last_name, remind_pin, is_active, is_staff)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, user.ID, user.CreatedAt, user.UpdatedAt, user.Username, user.Email,
		user.PasswordHash, user.FirstName, user.LastName, user.RemindPin, user.IsActive, user.IsStaff)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ProfileUpdate carries the mutable profile fields for a partial update.
// nil means "not supplied, leave unchanged". Fields outside this struct
// are not mutable through the profile endpoint.
type ProfileUpdate struct {
	Username     *string
	Email        *string
	FirstName    *string
	LastName     *string
	ProfileImage *string
}

// UpdateProfile applies only the supplied fields to the account row.
func UpdateProfile(userID uuid.UUID, update ProfileUpdate) error {
	_, err := database.PostgresDB.Exec(`
		UPDATE users SET
			username = COALESCE($2, username),
			email = COALESCE($3, email),
			first_name = COALESCE($4, first_name),
			last_name = COALESCE($5, last_name),
			profile_image = COALESCE($6, profile_image),
			updated_at = NOW()
		WHERE id = $1
	`, userID, update.Username, update.Email, update.FirstName, update.LastName, update.ProfileImage)
	return err
}

// SetPin stores the account's 4-digit PIN.
func SetPin(userID uuid.UUID, pin string) error {
	_, err := database.PostgresDB.Exec(`
		UPDATE users SET pin_code = $2, updated_at = NOW() WHERE id = $1
	`, userID, pin)
	return err
}

// SetRemindPin stores the PIN-reminder preference.
func SetRemindPin(userID uuid.UUID, remind bool) error {
	_, err := database.PostgresDB.Exec(`
		UPDATE users SET remind_pin = $2, updated_at = NOW() WHERE id = $1
	`, userID, remind)
	return err
}
