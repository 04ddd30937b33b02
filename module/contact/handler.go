package contact

import (
	"time"

	mid "ChatWave/middleware"
	midsec "ChatWave/middleware/security"
	contactmodel "ChatWave/module/contact/model"
	userservice "ChatWave/module/user/service"
	mgo "ChatWave/service/mgo"
	"ChatWave/tools/errs"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

func HandlerAdd(c *gin.Context) {
	var in struct {
		ContactID string `json:"contactId"`
		Alias     string `json:"alias"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.ContactID == "" {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail("contactId is required"))
		return
	}
	owner := midsec.UserID(c)
	if in.ContactID == owner {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail("cannot add yourself"))
		return
	}
	// the contact must be a real account
	if _, err := userservice.GetByID(c.Request.Context(), in.ContactID); err != nil {
		mid.JSONError(c, err)
		return
	}

	coll := mgo.Coll(contactmodel.CollContacts)
	if err := coll.FindOne(c.Request.Context(),
		bson.M{"owner_id": owner, "contact_id": in.ContactID}).Err(); err == nil {
		mid.JSONError(c, errs.ErrRecordIsExist)
		return
	}

	ct := contactmodel.Contact{
		OwnerID:    owner,
		ContactID:  in.ContactID,
		Alias:      in.Alias,
		CreateTime: time.Now(),
	}
	if _, err := coll.InsertOne(c.Request.Context(), ct); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, ct)
}

func HandlerRemove(c *gin.Context) {
	_, err := mgo.Coll(contactmodel.CollContacts).DeleteOne(c.Request.Context(),
		bson.M{"owner_id": midsec.UserID(c), "contact_id": c.Param("id")})
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, nil)
}

func HandlerList(c *gin.Context) {
	cur, err := mgo.Coll(contactmodel.CollContacts).Find(c.Request.Context(),
		bson.M{"owner_id": midsec.UserID(c)})
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	var out []contactmodel.Contact
	if err := cur.All(c.Request.Context(), &out); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, out)
}
