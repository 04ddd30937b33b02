package settings

import (
	"time"

	mid "ChatWave/middleware"
	midsec "ChatWave/middleware/security"
	setmodel "ChatWave/module/settings/model"
	mgo "ChatWave/service/mgo"
	"ChatWave/tools/errs"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func HandlerGet(c *gin.Context) {
	uid := midsec.UserID(c)
	var s setmodel.Settings
	err := mgo.Coll(setmodel.CollSettings).FindOne(c.Request.Context(),
		bson.M{"user_id": uid}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		mid.OK(c, setmodel.Defaults(uid))
		return
	}
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, s)
}

type settingsInput struct {
	Theme           *string `json:"theme"`
	Language        *string `json:"language"`
	ShowLastSeen    *bool   `json:"showLastSeen"`
	ReadReceipts    *bool   `json:"readReceipts"`
	TwoFactor       *bool   `json:"twoFactor"`
	NotifyOnMessage *bool   `json:"notifyOnMessage"`
}

// HandlerUpdate upserts only the fields the client sent.
func HandlerUpdate(c *gin.Context) {
	var in settingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	uid := midsec.UserID(c)
	set := bson.M{"update_time": time.Now()}
	if in.Theme != nil {
		set["theme"] = *in.Theme
	}
	if in.Language != nil {
		set["language"] = *in.Language
	}
	if in.ShowLastSeen != nil {
		set["show_last_seen"] = *in.ShowLastSeen
	}
	if in.ReadReceipts != nil {
		set["read_receipts"] = *in.ReadReceipts
	}
	if in.TwoFactor != nil {
		set["two_factor"] = *in.TwoFactor
	}
	if in.NotifyOnMessage != nil {
		set["notify_on_message"] = *in.NotifyOnMessage
	}

	// defaults fill the paths the client did not touch on first write
	d := setmodel.Defaults(uid)
	onInsert := bson.M{
		"user_id":           uid,
		"theme":             d.Theme,
		"language":          d.Language,
		"show_last_seen":    d.ShowLastSeen,
		"read_receipts":     d.ReadReceipts,
		"notify_on_message": d.NotifyOnMessage,
	}
	for k := range set {
		delete(onInsert, k)
	}
	_, err := mgo.Coll(setmodel.CollSettings).UpdateOne(c.Request.Context(),
		bson.M{"user_id": uid},
		bson.M{"$set": set, "$setOnInsert": onInsert},
		options.Update().SetUpsert(true))
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	HandlerGet(c)
}
