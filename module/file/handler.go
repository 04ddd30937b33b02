package file

import (
	"os"
	"path/filepath"
	"time"

	"ChatWave/global"
	mid "ChatWave/middleware"
	midsec "ChatWave/middleware/security"
	filemodel "ChatWave/module/file/model"
	mgo "ChatWave/service/mgo"
	"ChatWave/tools/errs"
	"ChatWave/tools/ids"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandlerUpload stores the blob under a uuid name and the metadata in mongo.
func HandlerUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		mid.JSONError(c, errs.ErrInvalidParam.WithDetail("file field is required"))
		return
	}

	dir := global.Conf.File.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		mid.JSONError(c, err)
		return
	}
	stored := uuid.NewString() + filepath.Ext(fh.Filename)
	if err := c.SaveUploadedFile(fh, filepath.Join(dir, stored)); err != nil {
		mid.JSONError(c, err)
		return
	}

	f := filemodel.File{
		FileID:      ids.GenerateString(),
		OwnerID:     midsec.UserID(c),
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		StoredName:  stored,
		CreateTime:  time.Now(),
	}
	if _, err := mgo.Coll(filemodel.CollFiles).InsertOne(c.Request.Context(), f); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, f)
}

func HandlerList(c *gin.Context) {
	cur, err := mgo.Coll(filemodel.CollFiles).Find(c.Request.Context(),
		bson.M{"owner_id": midsec.UserID(c)})
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	var out []filemodel.File
	if err := cur.All(c.Request.Context(), &out); err != nil {
		mid.JSONError(c, err)
		return
	}
	mid.OK(c, out)
}

func HandlerDownload(c *gin.Context) {
	var f filemodel.File
	err := mgo.Coll(filemodel.CollFiles).FindOne(c.Request.Context(),
		bson.M{"file_id": c.Param("id"), "owner_id": midsec.UserID(c)}).Decode(&f)
	if err == mongo.ErrNoDocuments {
		mid.JSONError(c, errs.ErrRecordNotFound)
		return
	}
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	c.FileAttachment(filepath.Join(global.Conf.File.Dir, f.StoredName), f.Name)
}

func HandlerDelete(c *gin.Context) {
	var f filemodel.File
	err := mgo.Coll(filemodel.CollFiles).FindOneAndDelete(c.Request.Context(),
		bson.M{"file_id": c.Param("id"), "owner_id": midsec.UserID(c)}).Decode(&f)
	if err == mongo.ErrNoDocuments {
		mid.JSONError(c, errs.ErrRecordNotFound)
		return
	}
	if err != nil {
		mid.JSONError(c, err)
		return
	}
	_ = os.Remove(filepath.Join(global.Conf.File.Dir, f.StoredName))
	mid.OK(c, nil)
}
