package db

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/faz-ai-biz/secretaria/internal/db/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates no client exists for the given email.
	ErrNotFound = errors.New("client not found")
	// ErrDuplicateEmail indicates a client with the email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// ClientPatch enumerates the mutable client fields. Nil pointers leave the
// stored value untouched.
type ClientPatch struct {
	Credentials *json.RawMessage
	Expiry      *string
}

// CreateClient inserts a new client record. The email must be unique.
func CreateClient(database *gorm.DB, email string, credentials json.RawMessage, expiry string) (*models.Client, error) {
	client := &models.Client{
		Email:       email,
		Credentials: credentials,
		Expiry:      expiry,
	}

	err := database.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Client{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		return tx.Create(client).Error
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create client: %w", err)
	}

	return client, nil
}

// GetClientByEmail returns the client for the given email.
func GetClientByEmail(database *gorm.DB, email string) (*models.Client, error) {
	var client models.Client
	if err := database.Where("email = ?", email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &client, nil
}

// ListClients returns clients in insertion order.
func ListClients(database *gorm.DB, offset, limit int) ([]models.Client, error) {
	var clients []models.Client
	if err := database.Order("id").Offset(offset).Limit(limit).Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// UpdateClient applies the patch to the client with the given email and
// refreshes its updated_at timestamp.
func UpdateClient(database *gorm.DB, email string, patch ClientPatch) (*models.Client, error) {
	var client models.Client
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if patch.Credentials != nil {
			client.Credentials = *patch.Credentials
		}
		if patch.Expiry != nil {
			client.Expiry = *patch.Expiry
		}

		return tx.Save(&client).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update client: %w", err)
	}

	return &client, nil
}

// DeleteClient removes the client with the given email.
func DeleteClient(database *gorm.DB, email string) error {
	err := database.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Where("email = ?", email).First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(&client).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
