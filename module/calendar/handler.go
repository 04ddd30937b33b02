package calendar

import (
	"time"

	mid "ChatWave/middleware"
	midsec "ChatWave/middleware/security"
	calmodel "ChatWave/module/calendar/model"
	mgo "ChatWave/service/mgo"
	"ChatWave/tools/errs"
	"ChatWave/tools/ids"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventInput struct {
	Title    string    `json:"title"`
	Note     string    `json:"note"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

func HandlerCreate(c *gin.Context) {
	var in eventInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Title == "" {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail("title is required"))
		return
	}
	if !in.EndsAt.IsZero() && in.EndsAt.Before(in.StartsAt) {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail("endsAt before startsAt"))
		return
	}
	now := time.Now()
	ev := calmodel.Event{
		EventID:    ids.GenerateString(),
		UserID:     midsec.UserID(c),
		Title:      in.Title,
		Note:       in.Note,
		StartsAt:   in.StartsAt,
		EndsAt:     in.EndsAt,
		CreateTime: now,
		UpdateTime: now,
	}
	if _, err := mgo.Coll(calmodel.CollEvents).InsertOne(c.Request.Context(), ev); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, ev)
}

func HandlerList(c *gin.Context) {
	cur, err := mgo.Coll(calmodel.CollEvents).Find(c.Request.Context(),
		bson.M{"user_id": midsec.UserID(c)},
		options.Find().SetSort(bson.M{"starts_at": 1}))
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	var out []calmodel.Event
	if err := cur.All(c.Request.Context(), &out); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, out)
}

func HandlerUpdate(c *gin.Context) {
	var in eventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	set := bson.M{"update_time": time.Now()}
	if in.Title != "" {
		set["title"] = in.Title
	}
	if in.Note != "" {
		set["note"] = in.Note
	}
	if !in.StartsAt.IsZero() {
		set["starts_at"] = in.StartsAt
	}
	if !in.EndsAt.IsZero() {
		set["ends_at"] = in.EndsAt
	}
	res, err := mgo.Coll(calmodel.CollEvents).UpdateOne(c.Request.Context(),
		bson.M{"event_id": c.Param("id"), "user_id": midsec.UserID(c)},
		bson.M{"$set": set})
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

func HandlerDelete(c *gin.Context) {
	res, err := mgo.Coll(calmodel.CollEvents).DeleteOne(c.Request.Context(),
		bson.M{"event_id": c.Param("id"), "user_id": midsec.UserID(c)})
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	if res.DeletedCount == 0 {
		mid.JSONError(c, errs.ErrRecordNotFound)
		return
	}
	mid.OK(c, nil)
}
