package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/internal/util"
	"github.com/hubtav/tavlist/pkg/account"
	"github.com/hubtav/tavlist/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAuthMgr)
}

type AuthMgr struct {
	name     string
	tokenMgr *util.TokenManager
	accounts *account.Service
}

func NewAuthMgr(conf *RegisterConfig) Manager {
	return &AuthMgr{
		name:     "auth",
		tokenMgr: conf.TokenMgr,
		accounts: conf.Accounts,
	}
}

func (mgr *AuthMgr) GetName() string { return mgr.name }

func (mgr *AuthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("/login", mgr.Login)
}

func (mgr *AuthMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *AuthMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	LoginReq struct {
		Email    string `json:"email" binding:"required"`    // 登录邮箱
		Password string `json:"password" binding:"required"` // 密码
	}

	LoginResp struct {
		AccessToken string               `json:"accessToken"`
		Profile     *account.ProfileView `json:"profile"`
	}
)

// Login godoc
// @Summary 用户登录
// @Description 校验邮箱和密码，签发包含用户与角色的 JWT Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body LoginReq true "登录参数"
// @Success 200 {object} resputil.Response[LoginResp] "登录成功"
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 401 {object} resputil.Response[any] "邮箱或密码错误"
// @Failure 500 {object} resputil.Response[any] "数据库交互错误"
// @Router /v1/auth/login [post]
func (mgr *AuthMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	l := logutils.Log.WithFields(logutils.Fields{"email": req.Email})

	profile, err := mgr.accounts.Authenticate(c, req.Email, req.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		l.Warn("invalid credentials")
		resputil.HTTPError(c, http.StatusUnauthorized, "Email ou senha inválidos", resputil.InvalidCredentials)
		return
	}
	if err != nil {
		resputil.HandleError(c, err)
		return
	}

	token, err := mgr.tokenMgr.CreateToken(&util.JWTMessage{
		ProfileID: profile.ID,
		UserID:    profile.UserID,
		Username:  profile.FullName,
		Role:      profile.Role,
	})
	if err != nil {
		resputil.Error(c, "failed to sign token", resputil.NotSpecified)
		return
	}
	l.Info("login succeeded")
	resputil.Success(c, LoginResp{AccessToken: token, Profile: profile})
}
