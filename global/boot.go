package global

import (
	"context"
	"time"

	"ChatWave/logger"
	mgoSrv "ChatWave/service/mgo"
	storage "ChatWave/service/storage"
	ids "ChatWave/tools/ids"
)

func ConfigAll(ctx context.Context) {
	ConfigIds()
	ConfigRedis()
	ConfigMgo(ctx)
}

func ConfigIds() {
	ids.SetNodeID(Conf.NodeID)
}

func ConfigRedis() {
	err := storage.InitRedis(storage.Config{
		Addr:     Conf.Redis.Addr,
		Password: Conf.Redis.Password,
		DB:       Conf.Redis.DB,
		PoolSize: Conf.Redis.PoolSize,
	})
	if err != nil {
		logger.Warnf("[boot] redis unavailable: %v", err)
	}
}

func ConfigMgo(ctx context.Context) {
	cfg := &mgoSrv.Config{
		Uri:         Conf.Mongo.Uri,
		Database:    Conf.Mongo.Database,
		Username:    Conf.Mongo.Username,
		Password:    Conf.Mongo.Password,
		MaxPoolSize: Conf.Mongo.MaxPoolSize,
	}
	mgoSrv.StartAsync(ctx, cfg)
	wctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := mgoSrv.WaitReady(wctx); err != nil {
		logger.Warnf("[boot] mongo not ready, connecting in background: %v", err)
	}
}
