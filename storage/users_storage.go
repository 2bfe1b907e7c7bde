package storage

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/brightpath-it/backoffice/storage/model"
)

// ErrInvalidCredentials is returned by Authenticate for unknown users, wrong
// passwords and disabled users alike
var ErrInvalidCredentials = errors.New("invalid credentials")

// UsersStorage implements model.UsersStore using GORM. Password hashes are
// never returned to callers.
type UsersStorage struct {
	db     *gorm.DB
	params Argon2idParams
}

// UsersStorage returns the admin users store
func (s *Storage) UsersStorage() *UsersStorage {
	return &UsersStorage{db: s.db, params: s.userParams}
}

func (s *UsersStorage) byName(username string) (*model.User, error) {
	var u model.User
	err := s.db.Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.NotFoundErrorFmt("user not found: %s", username)
	}
	if err != nil {
		return nil, dbError(err, "users: lookup failed")
	}
	return &u, nil
}

func withoutHash(u *model.User) *model.User {
	u.PasswordHash = ""
	return u
}

// Count returns the number of admin users; zero means the admin routes are open
func (s *UsersStorage) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, dbError(err, "users: count failed")
	}
	return count, nil
}

// List returns all users ordered by username
func (s *UsersStorage) List() ([]model.User, error) {
	var users []model.User
	if err := s.db.Omit("password_hash").Order("username").Find(&users).Error; err != nil {
		return nil, dbError(err, "users: list failed")
	}
	return users, nil
}

// Get returns a user by username
func (s *UsersStorage) Get(username string) (*model.User, error) {
	u, err := s.byName(username)
	if err != nil {
		return nil, err
	}
	return withoutHash(u), nil
}

// Create adds an admin user. Once the first user exists the admin routes
// require authentication.
func (s *UsersStorage) Create(username, password, displayName string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, model.ValidationError{Message: "username and password are required"}
	}
	hash, err := newPasswordHash(password, s.params)
	if err != nil {
		return nil, err
	}
	u := model.User{
		Username:     username,
		PasswordHash: hash.String(),
		DisplayName:  strings.TrimSpace(displayName),
	}
	if err = s.db.Create(&u).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, model.AlreadyExistsErrorFmt("user already exists: %s", username)
		}
		return nil, dbError(err, "users: create failed")
	}
	log.WithField("username", username).Info("admin user created")
	return withoutHash(&u), nil
}

// Update changes the display name, the password or the disabled flag of a
// user. Nil arguments are left unchanged.
func (s *UsersStorage) Update(username string, displayName, newPassword *string, disabled *bool) (
	*model.User, error,
) {
	if newPassword != nil && *newPassword == "" {
		return nil, model.ValidationError{Message: "password cannot be empty"}
	}
	u, err := s.byName(username)
	if err != nil {
		return nil, err
	}
	var changed []string
	if displayName != nil {
		u.DisplayName = strings.TrimSpace(*displayName)
		changed = append(changed, "display_name")
	}
	if disabled != nil {
		u.Disabled = *disabled
		changed = append(changed, "disabled")
	}
	if newPassword != nil {
		hash, err := newPasswordHash(*newPassword, s.params)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash.String()
		changed = append(changed, "password_hash")
	}
	if len(changed) > 0 {
		if err = s.db.Model(u).Select(changed).Updates(u).Error; err != nil {
			return nil, dbError(err, "users: update failed")
		}
		log.WithFields(
			log.Fields{
				"username": username,
				"changed":  changed,
			},
		).Info("admin user updated")
	}
	return withoutHash(u), nil
}

// Delete removes a user by username
func (s *UsersStorage) Delete(username string) error {
	res := s.db.Where("username = ?", username).Delete(&model.User{})
	if res.Error != nil {
		return dbError(res.Error, "users: delete failed")
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("user not found: %s", username)
	}
	log.WithField("username", username).Info("admin user deleted")
	return nil
}

// Authenticate checks the password of an enabled user. A hash created with
// other than the configured parameters is replaced after a successful check.
func (s *UsersStorage) Authenticate(username, password string) (*model.User, error) {
	u, err := s.byName(username)
	if err != nil {
		var notFound model.NotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.Disabled {
		return nil, ErrInvalidCredentials
	}
	hash, err := parsePasswordHash(u.PasswordHash)
	if err != nil {
		log.WithError(err).WithField("username", username).Warn("unreadable password hash")
		return nil, ErrInvalidCredentials
	}
	if !hash.matches(password) {
		return nil, ErrInvalidCredentials
	}
	if hash.params != s.params {
		s.rehash(u, password)
	}
	return withoutHash(u), nil
}

// rehash stores a new hash of password using the configured parameters
func (s *UsersStorage) rehash(u *model.User, password string) {
	logger := log.WithField("username", u.Username)
	hash, err := newPasswordHash(password, s.params)
	if err == nil {
		err = s.db.Model(&model.User{}).Where("id = ?", u.ID).
			Update("password_hash", hash.String()).Error
	}
	if err != nil {
		logger.WithError(err).Warn("could not upgrade password hash")
		return
	}
	logger.Debug("upgraded password hash")
}
