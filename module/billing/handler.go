package billing

import (
	"time"

	mid "ChatWave/middleware"
	midsec "ChatWave/middleware/security"
	billmodel "ChatWave/module/billing/model"
	mgo "ChatWave/service/mgo"
	"ChatWave/tools/errs"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HandlerGet returns the user's subscription, defaulting to the free plan.
func HandlerGet(c *gin.Context) {
	uid := midsec.UserID(c)
	var s billmodel.Subscription
	err := mgo.Coll(billmodel.CollSubscriptions).FindOne(c.Request.Context(),
		bson.M{"user_id": uid}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		mid.OK(c, billmodel.Subscription{
			UserID: uid,
			Plan:   billmodel.PlanFree,
			Status: billmodel.StatusActive,
		})
		return
	}
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, s)
}

func HandlerChangePlan(c *gin.Context) {
	var in struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || !billmodel.ValidPlan(in.Plan) {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail("plan must be free, pro or team"))
		return
	}
	uid := midsec.UserID(c)
	now := time.Now()
	_, err := mgo.Coll(billmodel.CollSubscriptions).UpdateOne(c.Request.Context(),
		bson.M{"user_id": uid},
		bson.M{
			"$set": bson.M{
				"plan":        in.Plan,
				"status":      billmodel.StatusActive,
				"renews_at":   now.AddDate(0, 1, 0),
				"update_time": now,
			},
			"$setOnInsert": bson.M{"create_time": now},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	HandlerGet(c)
}

// HandlerCancel keeps the record but stops renewal.
func HandlerCancel(c *gin.Context) {
	res, err := mgo.Coll(billmodel.CollSubscriptions).UpdateOne(c.Request.Context(),
		bson.M{"user_id": midsec.UserID(c)},
		bson.M{"$set": bson.M{
			"status":      billmodel.StatusCancelled,
			"update_time": time.Now(),
		}})
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	if res.MatchedCount == 0 {
		mid.JSONError(c, errs.ErrRecordNotFound)
		return
	}
	mid.OK(c, nil)
}
