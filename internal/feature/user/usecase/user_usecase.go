// Package usecase はuserフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"social_backend/internal/feature/user/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	Create(ctx context.Context, user *entity.User) error

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByUsername は指定されたユーザー名に一致するユーザーを取得します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindAll は登録済みの全ユーザーを取得します。
	FindAll(ctx context.Context) ([]*entity.User, error)

	// ExistsByEmail は指定されたメールアドレスのユーザーが存在するか確認します。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername は指定されたユーザー名のユーザーが存在するか確認します。
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Save は既存ユーザーの変更を永続化します。
	Save(ctx context.Context, user *entity.User) error

	// Delete は指定されたIDのユーザーを削除します。
	Delete(ctx context.Context, id string) error
}

// SessionIssuer はセッショントークンの発行・更新のインターフェースを定義します。
// 実装はplatform/tokenのIssuerです。
type SessionIssuer interface {
	// Issue は指定されたユーザーの署名済みセッショントークンを発行します。
	Issue(userID, email, passwordHash string) (string, error)
	// VerifyAndRenew はトークンを検証し、有効期限を延長した新しいトークンを返します。
	VerifyAndRenew(ctx context.Context, raw string) (string, error)
}

// UpdateInput carries a full profile replacement. Every field is
// required; the password is rehashed and a fresh session token issued.
type UpdateInput struct {
	Email    string
	Password string
	Username string
	Name     string
	About    string
}

// PartialUpdateInput carries an optional subset of profile fields.
// Empty fields fall back to the stored values; username and email are
// immutable through this path.
type PartialUpdateInput struct {
	Password string
	Name     string
	About    *string
}

// userUsecase はユーザー管理のビジネスロジックを実装します。
type userUsecase struct {
	users    UserRepository
	sessions SessionIssuer
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, sessions SessionIssuer) *userUsecase {
	return &userUsecase{users: users, sessions: sessions}
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// メールアドレスとユーザー名の一意性を事前に検証します。
func (u *userUsecase) Register(ctx context.Context, email, password, username, name string) (*entity.User, error) {
	if taken, err := u.users.ExistsByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := u.users.ExistsByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashed),
		Username: username,
		Name:     name,
		About:    "",
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザー名とパスワードでユーザーを認証し、成功時にセッショントークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *userUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := u.users.FindByUsername(ctx, username)

	// ユーザー未検出時のタイミング攻撃緩和用ダミーハッシュ
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	token, err := u.sessions.Issue(user.ID, user.Email, user.Password)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, nil
}

// Refresh は既存トークンを検証し、有効期限を延長した新しいトークンを返します。
func (u *userUsecase) Refresh(ctx context.Context, raw string) (string, error) {
	return u.sessions.VerifyAndRenew(ctx, raw)
}

// Get はIDでユーザーを取得します。
func (u *userUsecase) Get(ctx context.Context, id string) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// List は全ユーザーを取得します。
func (u *userUsecase) List(ctx context.Context) ([]*entity.User, error) {
	return u.users.FindAll(ctx)
}

// Update はプロフィール全体を置き換え、新しいトークンを発行します。
// パスワードは再ハッシュされるため、発行済みの旧トークンは次回検証時に無効になります。
func (u *userUsecase) Update(ctx context.Context, id string, in UpdateInput) (*entity.User, string, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	// 一意性チェックは値が変わる場合のみ実施します。
	if in.Email != user.Email {
		if taken, err := u.users.ExistsByEmail(ctx, in.Email); err != nil {
			return nil, "", fmt.Errorf("failed to check email uniqueness: %w", err)
		} else if taken {
			return nil, "", ErrEmailTaken
		}
	}
	if in.Username != user.Username {
		if taken, err := u.users.ExistsByUsername(ctx, in.Username); err != nil {
			return nil, "", fmt.Errorf("failed to check username uniqueness: %w", err)
		} else if taken {
			return nil, "", ErrUsernameTaken
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user.Email = in.Email
	user.Password = string(hashed)
	user.Username = in.Username
	user.Name = in.Name
	user.About = in.About

	if err := u.users.Save(ctx, user); err != nil {
		return nil, "", err
	}

	// 資格情報が変わったので、新しいスナップショットでトークンを再発行します。
	token, err := u.sessions.Issue(user.ID, user.Email, user.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return user, token, nil
}

// PartialUpdate は指定されたフィールドのみを更新します。
// 未指定のフィールドは保存済みの値を維持し、ユーザー名とメールアドレスは変更できません。
func (u *userUsecase) PartialUpdate(ctx context.Context, id string, in PartialUpdateInput) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.About != nil {
		user.About = *in.About
	}

	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete はユーザーを削除します。
//
// 他ユーザーのエッジリストに残る本ユーザーのIDは掃除されません。
// 読み取り側は未知のIDを許容します。
func (u *userUsecase) Delete(ctx context.Context, id string) error {
	return u.users.Delete(ctx, id)
}

// Follow は対象ユーザーを一方向にフォローします。相互関係は不要です。
func (u *userUsecase) Follow(ctx context.Context, userID, targetUsername string) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	target, err := u.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}

	user.Follows.Add(target.ID)
	return u.users.Save(ctx, user)
}

// Unfollow はフォローを解除します。
func (u *userUsecase) Unfollow(ctx context.Context, userID, targetUsername string) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	target, err := u.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}

	user.Follows.Remove(target.ID)
	return u.users.Save(ctx, user)
}

// Follows はフォロー中のユーザーIDの一覧を返します。
func (u *userUsecase) Follows(ctx context.Context, userID string) (entity.IDList, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Follows, nil
}
