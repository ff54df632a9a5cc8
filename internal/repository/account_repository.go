package repository

import (
	"strings"

	"github.com/harshgurla/codeassess/internal/model"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(account *model.Account) error
	FindByEmail(email string) (*model.Account, error)
	FindByID(id uint) (*model.Account, error)
	FindAllByRole(role string) ([]model.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *model.Account) error {
	account.Email = strings.ToLower(account.Email)
	return r.db.Create(account).Error
}

func (r *accountRepository) FindByEmail(email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByID(id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindAllByRole(role string) ([]model.Account, error) {
	var accounts []model.Account
	if err := r.db.Where("role = ?", role).Order("created_at desc").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
