package usecases

import (
	"context"
	"errors"
	"testing"

	"calmora/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRegisterFixture() (*mockUserRepository, *mockPasswordHasher, *mockOTPStore, *mockEmailSender, *mockSMSSender, *RegisterUseCase) {
	userRepo := new(mockUserRepository)
	hasher := new(mockPasswordHasher)
	otpStore := new(mockOTPStore)
	emailSender := new(mockEmailSender)
	smsSender := new(mockSMSSender)
	uc := NewRegisterUseCase(userRepo, hasher, otpStore, emailSender, smsSender, 10, newTestLogger())
	return userRepo, hasher, otpStore, emailSender, smsSender, uc
}

func TestRegisterUseCase_Execute_EmailIdentity(t *testing.T) {
	userRepo, hasher, otpStore, emailSender, smsSender, uc := newRegisterFixture()

	userRepo.On("GetByEmail", mock.Anything, "listener@example.com").Return(nil, nil)
	hasher.On("Hash", "s3cretpass").Return("$argon$hash", nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.Email() != nil && *u.Email() == "listener@example.com" && !u.IsVerified()
	})).Return(nil)
	otpStore.On("Generate", mock.Anything, "listener@example.com").Return("482913", nil)
	emailSender.On("SendVerificationCode", "listener@example.com", "482913", 10).Return(nil)

	result, err := uc.Execute(context.Background(), RegisterCommand{
		Email:    "Listener@Example.com",
		Name:     "Listener",
		Password: "s3cretpass",
	})

	require.NoError(t, err)
	require.NotNil(t, result.Email)
	assert.Equal(t, "listener@example.com", *result.Email)
	assert.False(t, result.Verified)
	emailSender.AssertExpectations(t)
	smsSender.AssertNotCalled(t, "SendVerificationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterUseCase_Execute_PhoneIdentity(t *testing.T) {
	userRepo, _, otpStore, emailSender, smsSender, uc := newRegisterFixture()

	userRepo.On("GetByPhone", mock.Anything, "+905551112233").Return(nil, nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)
	otpStore.On("Generate", mock.Anything, "+905551112233").Return("107733", nil)
	smsSender.On("SendVerificationCode", mock.Anything, "+905551112233", "107733").Return(nil)

	result, err := uc.Execute(context.Background(), RegisterCommand{
		Phone: "+905551112233",
		Name:  "Listener",
	})

	require.NoError(t, err)
	require.NotNil(t, result.Phone)
	assert.Equal(t, "+905551112233", *result.Phone)
	smsSender.AssertExpectations(t)
	emailSender.AssertNotCalled(t, "SendVerificationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterUseCase_Execute_DuplicateEmail(t *testing.T) {
	userRepo, _, _, _, _, uc := newRegisterFixture()

	existing := buildUser(t, testUserParams{ID: 1, Email: "listener@example.com", Verified: true})
	userRepo.On("GetByEmail", mock.Anything, "listener@example.com").Return(existing, nil)

	result, err := uc.Execute(context.Background(), RegisterCommand{
		Email: "listener@example.com",
		Name:  "Listener",
	})

	assert.ErrorIs(t, err, user.ErrUserExists)
	assert.Nil(t, result)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterUseCase_Execute_CodeDeliveryFailureStillRegisters(t *testing.T) {
	userRepo, _, otpStore, emailSender, _, uc := newRegisterFixture()

	userRepo.On("GetByEmail", mock.Anything, "listener@example.com").Return(nil, nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)
	otpStore.On("Generate", mock.Anything, "listener@example.com").Return("482913", nil)
	emailSender.On("SendVerificationCode", "listener@example.com", "482913", 10).
		Return(errors.New("smtp unavailable"))

	result, err := uc.Execute(context.Background(), RegisterCommand{
		Email: "listener@example.com",
		Name:  "Listener",
	})

	// The account exists; the client is expected to ask for a resend.
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestRegisterUseCase_Execute_NoIdentity(t *testing.T) {
	_, _, _, _, _, uc := newRegisterFixture()

	result, err := uc.Execute(context.Background(), RegisterCommand{Name: "Listener"})

	assert.Error(t, err)
	assert.Nil(t, result)
}
