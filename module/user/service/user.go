package service

import (
	"context"
	"time"

	"ChatWave/global"
	mgo "ChatWave/service/mgo"
	"ChatWave/tools/errs"
	"ChatWave/tools/ids"
	jwtlib "ChatWave/tools/security"

	usermodel "ChatWave/module/user/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type RegisterParams struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(ctx context.Context, in RegisterParams) (*usermodel.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, errs.ErrInvalidParam.WithDetail("email and password are required")
	}

	coll := mgo.Coll(usermodel.CollUsers)
	if err := coll.FindOne(ctx, bson.M{"email": in.Email}).Err(); err == nil {
		return nil, errs.ErrRecordIsExist.WithDetail("email taken")
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &usermodel.User{
		UserID:       ids.GenerateString(),
		Nickname:     in.Nickname,
		Email:        in.Email,
		PasswordHash: string(hash),
		Status:       usermodel.UserNormal,
		CreateTime:   now,
		UpdateTime:   now,
	}
	if _, err := coll.InsertOne(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials, issues a JWT and records the session.
func Login(ctx context.Context, email, password, userAgent, ip string) (*usermodel.User, string, error) {
	var u usermodel.User
	err := mgo.Coll(usermodel.CollUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, "", errs.ErrRecordNotFound.WithDetail("unknown account")
	}
	if err != nil {
		return nil, "", err
	}
	if u.Status != usermodel.UserNormal {
		return nil, "", errs.ErrTokenExpired.WithDetail("account disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", errs.ErrInvalidParam.WithDetail("bad credentials")
	}

	opts := jwtlib.DefaultOptions(global.GetJwtSecret())
	opts.TTL = global.JwtTTL()
	token, tokenHash, exp, err := jwtlib.Generate(opts, u.UserID, nil)
	if err != nil {
		return nil, "", err
	}

	sess := usermodel.UserSession{
		SessionID:       ids.GenerateString(),
		UserID:          u.UserID,
		AccessTokenHash: tokenHash,
		UserAgent:       userAgent,
		IP:              ip,
		IsValid:         true,
		LoginTime:       time.Now(),
		ExpireAt:        exp,
	}
	if _, err := mgo.Coll(usermodel.CollUserSessions).InsertOne(ctx, sess); err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

// Logout invalidates every session matching the token hash.
func Logout(ctx context.Context, token string) error {
	_, err := mgo.Coll(usermodel.CollUserSessions).UpdateMany(ctx,
		bson.M{"access_token_hash": jwtlib.HashToken(token)},
		bson.M{"$set": bson.M{"is_valid": false}},
	)
	return err
}

func GetByID(ctx context.Context, userID string) (*usermodel.User, error) {
	var u usermodel.User
	err := mgo.Coll(usermodel.CollUsers).FindOne(ctx, bson.M{"user_id": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, errs.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type ProfileUpdate struct {
	Nickname string `json:"nickname"`
	FaceURL  string `json:"faceUrl"`
	Bio      string `json:"bio"`
}

func UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) error {
	set := bson.M{"update_time": time.Now()}
	if in.Nickname != "" {
		set["nickname"] = in.Nickname
	}
	if in.FaceURL != "" {
		set["face_url"] = in.FaceURL
	}
	if in.Bio != "" {
		set["bio"] = in.Bio
	}
	res, err := mgo.Coll(usermodel.CollUsers).UpdateOne(ctx,
		bson.M{"user_id": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrRecordNotFound
	}
	return nil
}
