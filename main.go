package main

import (
	"context"
	"flag"
	"time"

	"ChatWave/global"
	"ChatWave/logger"
	mid "ChatWave/middleware"
	"ChatWave/module/billing"
	"ChatWave/module/calendar"
	"ChatWave/module/chat"
	chatservice "ChatWave/module/chat/service"
	"ChatWave/module/contact"
	"ChatWave/module/file"
	"ChatWave/module/group"
	groupservice "ChatWave/module/group/service"
	"ChatWave/module/notification"
	"ChatWave/module/settings"
	"ChatWave/module/user"
	"ChatWave/service/ws"
	"ChatWave/service/ws/handlers"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := global.Load(*cfgPath); err != nil {
		logger.Warnf("config %s not loaded, using defaults: %v", *cfgPath, err)
	}
	global.ConfigAll(context.Background())

	s := ws.NewServer(ws.ServerConf{
		IdleTTL:         time.Duration(global.Conf.Ws.IdleTTLSeconds) * time.Second,
		SweepEvery:      time.Duration(global.Conf.Ws.SweepEverySecs) * time.Second,
		WriteWait:       time.Duration(global.Conf.Ws.WriteWaitSecs) * time.Second,
		SendQueueSize:   global.Conf.Ws.SendQueueSize,
		MaxMessageBytes: int64(global.Conf.Ws.MaxMessageBytes),
	})
	handlers.RegisterAll(s)

	notifySvc := notification.NewService(s.Delivery())
	chatSvc := chatservice.NewService(s.Delivery(), notifySvc)
	groupSvc := groupservice.NewService(s.Delivery(), notifySvc)
	s.Groups = groupSvc.MemberIDs

	chatH := chat.NewHandler(chatSvc)
	groupH := group.NewHandler(groupSvc)
	notifyH := notification.NewHandler(notifySvc)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(global.Conf.Server.WsPath, s.HandleWS)

	api := r.Group("/api")
	api.Use(mid.MongoGuard())

	mid.POST(api, "/auth/register", user.HandlerRegister, mid.RouteOpt{})
	mid.POST(api, "/auth/login", user.HandlerLogin, mid.RouteOpt{})
	mid.POST(api, "/auth/logout", user.HandlerLogout, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/users/me", user.HandlerMe, mid.RouteOpt{IsAuth: true})
	mid.PUT(api, "/users/me", user.HandlerUpdateProfile, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/users/:id/presence", user.HandlerPresence, mid.RouteOpt{IsAuth: true})

	mid.POST(api, "/messages", chatH.Send, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/messages/:peerId", chatH.History, mid.RouteOpt{IsAuth: true})

	mid.POST(api, "/groups", groupH.Create, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/groups", groupH.List, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/groups/:id", groupH.Get, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/groups/:id/join", groupH.Join, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/groups/:id/leave", groupH.Leave, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/groups/:id/messages", groupH.Send, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/groups/:id/messages", groupH.History, mid.RouteOpt{IsAuth: true})

	mid.POST(api, "/contacts", contact.HandlerAdd, mid.RouteOpt{IsAuth: true})
	mid.DELETE(api, "/contacts/:id", contact.HandlerRemove, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/contacts", contact.HandlerList, mid.RouteOpt{IsAuth: true})

	mid.GET(api, "/notifications", notifyH.List, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/notifications/read", notifyH.MarkAllRead, mid.RouteOpt{IsAuth: true})

	mid.POST(api, "/calendar/events", calendar.HandlerCreate, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/calendar/events", calendar.HandlerList, mid.RouteOpt{IsAuth: true})
	mid.PUT(api, "/calendar/events/:id", calendar.HandlerUpdate, mid.RouteOpt{IsAuth: true})
	mid.DELETE(api, "/calendar/events/:id", calendar.HandlerDelete, mid.RouteOpt{IsAuth: true})

	mid.POST(api, "/files", file.HandlerUpload, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/files", file.HandlerList, mid.RouteOpt{IsAuth: true})
	mid.GET(api, "/files/:id", file.HandlerDownload, mid.RouteOpt{IsAuth: true})
	mid.DELETE(api, "/files/:id", file.HandlerDelete, mid.RouteOpt{IsAuth: true})

	mid.GET(api, "/settings", settings.HandlerGet, mid.RouteOpt{IsAuth: true})
	mid.PUT(api, "/settings", settings.HandlerUpdate, mid.RouteOpt{IsAuth: true})

	mid.GET(api, "/billing/subscription", billing.HandlerGet, mid.RouteOpt{IsAuth: true})
	mid.POST(api, "/billing/subscription", billing.HandlerChangePlan, mid.RouteOpt{IsAuth: true})
	mid.DELETE(api, "/billing/subscription", billing.HandlerCancel, mid.RouteOpt{IsAuth: true})

	logger.Infof("listening on %s, ws at %s", global.Conf.Server.Addr, global.Conf.Server.WsPath)
	if err := r.Run(global.Conf.Server.Addr); err != nil {
		logger.Errorf("server stopped: %v", err)
	}
}
