package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/constants"
)

func TestCaptchaDisabledSkipsVerification(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "none", Scenes: config.CaptchaSceneConfig{Login: true}})
	if svc.SceneEnabled(constants.CaptchaSceneLogin) {
		t.Fatalf("provider none should disable every scene")
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled captcha should pass: %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("generate without provider want config invalid got %v", err)
	}
}

func TestCaptchaImageChallengeVerify(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{
		Provider: "IMAGE",
		Scenes:   config.CaptchaSceneConfig{Login: true},
	})
	if svc.SceneEnabled(constants.CaptchaSceneForgotPassword) {
		t.Fatalf("forgot password scene is off")
	}
	if err := svc.Verify(constants.CaptchaSceneForgotPassword, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled scene should pass: %v", err)
	}

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || !strings.HasPrefix(challenge.ImageBase64, "data:image/") {
		t.Fatalf("unexpected challenge: %+v", challenge.CaptchaID)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("missing code want ErrCaptchaRequired got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "wrong!"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("wrong code want ErrCaptchaInvalid got %v", err)
	}
}

func TestNormalizeCaptchaConfigDefaults(t *testing.T) {
	cfg := normalizeCaptchaConfig(config.CaptchaConfig{Provider: "image"})
	if cfg.Image.Length != 5 || cfg.Image.Width != 240 || cfg.Image.Height != 80 || cfg.Image.ExpireSeconds != 300 {
		t.Fatalf("unexpected defaults: %+v", cfg.Image)
	}
}
