package services

import (
	"context"
	"log"
	"time"

	"captionly/internal/cache"
	"captionly/internal/models/db_models"
	"captionly/internal/models/request_models"
	"captionly/internal/models/response_models"
	"captionly/internal/repositories"
	"captionly/pkg/utils"
)

const otpTTL = 10 * time.Minute

type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) error
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyOtpToken(ctx context.Context, request request_models.RequestVerifyOtpToken) error
	ResetPasswordWithOtp(ctx context.Context, request request_models.ResetPasswordRequest) error
}

type AccountService struct {
	accountRepo         repositories.AccountRepository
	subscriptionService SubscriptionServiceInterface
	guestService        GuestServiceInterface
	mailService         IMailService
	otpStore            cache.OtpStore
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	subscriptionService SubscriptionServiceInterface,
	guestService GuestServiceInterface,
	mailService IMailService,
	otpStore cache.OtpStore,
) AccountServiceInterface {
	return &AccountService{
		accountRepo:         accountRepo,
		subscriptionService: subscriptionService,
		guestService:        guestService,
		mailService:         mailService,
		otpStore:            otpStore,
	}
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) error {

	existingAccount, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existingAccount != nil {
		return utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return utils.ErrDatabaseError
	}

	newAccount := &db_models.Account{
		Name:         request.DisplayName,
		Email:        request.Email,
		PasswordHash: hashedPassword,
		Role:         "user",
	}

	if err := a.accountRepo.InsertTx(newAccount, ctx); err != nil {
		return utils.ErrDatabaseError
	}

	return nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {

	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(account.ID, account.Role)
	if err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	// A device that was used anonymously carries its free-caption count
	// into the account on first login. The merge is idempotent, so firing
	// it on every login is harmless.
	if request.DeviceID != "" {
		if err := a.guestService.MergeGuestIntoUser(ctx, request.DeviceID, account.ID); err != nil {
			log.Printf("Guest merge failed for device %s: %v", request.DeviceID, err)
		}
	}

	status, err := a.subscriptionService.GetStatus(ctx, account.ID, time.Now())
	if err != nil {
		return nil, err
	}

	return &response_models.AccountLoginResponse{
		Token:             token,
		IsUserHavePremium: status.IsSubscribed || status.FreeTrialEnabled,
	}, nil
}

func (a *AccountService) ForgotPassword(ctx context.Context, email string) error {

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		// Do not reveal whether the email exists.
		return nil
	}

	code, err := utils.GenerateOtpCode(6)
	if err != nil {
		return utils.ErrDatabaseError
	}

	if err := a.otpStore.Set(ctx, email, code, otpTTL); err != nil {
		return utils.ErrDatabaseError
	}

	if err := a.mailService.SendOtpMail(email, code); err != nil {
		log.Printf("Failed to send OTP mail to %s: %v", email, err)
		return utils.ErrDatabaseError
	}

	return nil
}

func (a *AccountService) VerifyOtpToken(ctx context.Context, request request_models.RequestVerifyOtpToken) error {

	ok, err := a.otpStore.Peek(ctx, request.Email, request.OtpToken)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !ok {
		return utils.ErrInvalidOtpToken
	}
	return nil
}

func (a *AccountService) ResetPasswordWithOtp(ctx context.Context, request request_models.ResetPasswordRequest) error {

	ok, err := a.otpStore.Consume(ctx, request.Email, request.OtpToken)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !ok {
		return utils.ErrInvalidOtpToken
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return utils.ErrDatabaseError
	}

	if err := a.accountRepo.UpdatePassword(ctx, request.Email, hashedPassword); err != nil {
		return utils.ErrDatabaseError
	}

	return nil
}
