package service

import (
	"Microblog/internal/api/dto"
	"Microblog/internal/model"
	"Microblog/internal/pkg/consts"
	"Microblog/internal/pkg/database"
	"Microblog/internal/pkg/redis"
	"Microblog/internal/pkg/security"
	"Microblog/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, dto *dto.LoginDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	EditProfile(ctx context.Context, id uint64, dto *dto.EditProfileDTO) (*dto.UserDTO, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, dto *dto.ResetPasswordDTO) error
	TouchLastSeen(ctx context.Context, id uint64) error
	UpdateLastSeen(ctx context.Context, id uint64, t time.Time) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(db *gorm.DB) UserService {
	return &UserServiceImpl{
		userRepo: repository.NewUserRepo(db),
	}
}

// Register 先查重再写入，并发注册时依赖唯一索引兜底
func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error) {
	if regDTO.Password != regDTO.Password2 {
		return nil, ErrPasswordMismatch
	}
	if err := s.checkUnique(ctx, regDTO.Username, regDTO.Email); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     regDTO.Username,
		Email:        regDTO.Email,
		PasswordHash: passwordHash,
		LastSeen:     time.Now().UTC(),
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if database.IsDuplicateKey(err) {
			if uniqueErr := s.checkUnique(ctx, regDTO.Username, regDTO.Email); uniqueErr != nil {
				return nil, uniqueErr
			}
			return nil, ErrUserUsernameExist
		}
		return nil, err
	}
	return toUserDTO(user)
}

func (s *UserServiceImpl) checkUnique(ctx context.Context, username, email string) error {
	existing, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserUsernameExist
	}
	existing, err = s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserEmailExist
	}
	return nil
}

func (s *UserServiceImpl) Login(ctx context.Context, loginDTO *dto.LoginDTO) (string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, loginDTO.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err = security.CheckPasswordHash(loginDTO.Password, user.PasswordHash); err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return security.GenerateToken(user.ID)
}

// Logout 签名写入黑名单，过期时间与令牌有效期一致
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrTokenInvalid
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, true, security.TokenExpiration())
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, id uint64) (*model.User, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserServiceImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user)
}

// EditProfile 改名时同样需要保证用户名唯一
func (s *UserServiceImpl) EditProfile(ctx context.Context, id uint64, editDTO *dto.EditProfileDTO) (*dto.UserDTO, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if editDTO.AboutMe != nil && len([]rune(*editDTO.AboutMe)) > consts.MaxAboutMeLength {
		return nil, ErrParamInvalid
	}

	if editDTO.Username != user.Username {
		existing, err := s.userRepo.GetUserByUsername(ctx, editDTO.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUserUsernameExist
		}
	}

	aboutMe := editDTO.AboutMe
	if aboutMe != nil && strings.TrimSpace(*aboutMe) == "" {
		aboutMe = nil
	}
	if err = s.userRepo.UpdateProfile(ctx, id, editDTO.Username, aboutMe); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrUserUsernameExist
		}
		return nil, err
	}
	return s.GetUserInfo(ctx, id)
}

// RequestPasswordReset 邮箱不存在时返回空令牌，不暴露账号是否存在
func (s *UserServiceImpl) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	token, err := security.GenerateResetPasswordToken(user.ID)
	if err != nil {
		return "", err
	}
	log.InfoContext(ctx, "password reset requested", "user_id", user.ID)
	return token, nil
}

func (s *UserServiceImpl) ResetPassword(ctx context.Context, token string, resetDTO *dto.ResetPasswordDTO) error {
	if resetDTO.Password != resetDTO.Password2 {
		return ErrPasswordMismatch
	}
	userID, err := security.VerifyResetPasswordToken(token)
	if err != nil {
		return ErrTokenInvalid
	}
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrTokenInvalid
	}
	passwordHash, err := security.HashPassword(resetDTO.Password)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, passwordHash)
}

// TouchLastSeen 只写 redis 脏数据，由定时任务批量落库
func (s *UserServiceImpl) TouchLastSeen(ctx context.Context, id uint64) error {
	now := time.Now().UTC().UnixMilli()
	return redis.HSet(ctx, consts.UserLastSeenDirty, strconv.FormatUint(id, 10), now)
}

// UpdateLastSeen 落库，较旧的时间不会覆盖较新的
func (s *UserServiceImpl) UpdateLastSeen(ctx context.Context, id uint64, t time.Time) error {
	return s.userRepo.UpdateLastSeen(ctx, id, t)
}

func toUserDTO(user *model.User) (*dto.UserDTO, error) {
	userDTO := &dto.UserDTO{}
	if err := copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	return userDTO, nil
}
