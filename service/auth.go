package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/pkg/jwt"
	"github.com/Aru0077/elife-service/types"
)

var _ IAuthService = (*AuthService)(nil)

type IAuthService interface {
	// Login 小程序登录，code 换 openid 并签发访问令牌
	Login(ctx context.Context, code string) (*types.LoginResponse, error)
}

type AuthService struct {
	Config *config.Config
}

func (s *AuthService) Login(ctx context.Context, code string) (*types.LoginResponse, error) {
	wxResp, err := s.code2Session(ctx, code)
	if err != nil {
		return nil, err
	}

	expire := time.Duration(s.Config.Jwt.ExpiresHours) * time.Hour
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	token, err := jwt.GenerateToken([]byte(s.Config.Jwt.Secret), wxResp.OpenID, "access", expire)
	if err != nil {
		return nil, err
	}

	return &types.LoginResponse{
		AccessToken: token,
		OpenID:      wxResp.OpenID,
	}, nil
}

func (s *AuthService) code2Session(ctx context.Context, code string) (*types.WxLoginResponse, error) {
	url := fmt.Sprintf(
		"https://api.weixin.qq.com/sns/jscode2session?appid=%s&secret=%s&js_code=%s&grant_type=authorization_code",
		s.Config.App.AppID,
		s.Config.App.AppSecret,
		code,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var wxResp types.WxLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&wxResp); err != nil {
		return nil, err
	}
	if wxResp.ErrCode != 0 {
		return nil, fmt.Errorf("code2session failed: %d %s", wxResp.ErrCode, wxResp.ErrMsg)
	}
	if wxResp.OpenID == "" {
		return nil, fmt.Errorf("code2session: empty openid")
	}

	return &wxResp, nil
}
