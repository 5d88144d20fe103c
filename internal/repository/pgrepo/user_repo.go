package pgrepo

import (
	"context"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/repository/repoargs"
	"github.com/jameszsun/dummy-ecommerce/pkg/uow"
)

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser создает юзера в базе данных. В случае конфликта email возвращает ошибку domain.ErrDuplicateKey,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	const query = `
		INSERT INTO users (email, encrypted_password, name)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, created_at, email, encrypted_password, COALESCE(name, '')`

	var user domain.User
	err := u.db.QueryRow(ctx, query, args.Email, args.Password, args.Name).
		Scan(&user.ID, &user.CreatedAt, &user.Email, &user.EncryptedPassword, &user.Name)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return &user, nil
}

// FindUserByEmail ищет юзера по email. Возвращает ошибку domain.ErrRecordNotFound если запись не найдена,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT id, created_at, email, encrypted_password, COALESCE(name, '')
		FROM users
		WHERE email = $1`

	var user domain.User
	err := u.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.CreatedAt, &user.Email, &user.EncryptedPassword, &user.Name)
	if err != nil {
		return nil, convertErr(err, "finding user by email %s", email)
	}
	return &user, nil
}

func (u *UserRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		SELECT id, created_at, email, encrypted_password, COALESCE(name, '')
		FROM users
		WHERE id = $1`

	var user domain.User
	err := u.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.CreatedAt, &user.Email, &user.EncryptedPassword, &user.Name)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return &user, nil
}
