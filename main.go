package main

import (
	"fmt"
	"log"
	"time"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/controllers"
	"github.com/feedhub-io/feedhub/events"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/services"

	docs "github.com/feedhub-io/feedhub/docs"

	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	router *gin.Engine
	us     services.UserService
	rls    services.RoleService
	ms     services.MemberService
	ks     services.ApiKeyService
	as     services.AuthService
	als    services.AuditService
	ps     services.ProjectService
	cs     services.ChannelService
	fs     services.FeedbackService
	is     services.IssueService
	cats   services.CategoryService
	ws     services.WebhookService
	wl     *services.WebhookListener
	bus    *events.Bus
	ac     controllers.AuthController
	alc    controllers.AuditController
	pc     controllers.ProjectController
	cc     controllers.ChannelController
	fc     controllers.FeedbackController
	ic     controllers.IssueController
	catc   controllers.CategoryController
	wc     controllers.WebhookController
	uc     controllers.UserController
	rlc    controllers.RoleController
	mc     controllers.MemberController
	kc     controllers.ApiKeyController
	conf   config.Config
	es     helpers.ElasticSearch
	db     *gorm.DB
)

var authProviders = []string{"local"}

func init() {
	// Loading env variables and creating the config
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, using environment")
	}
	conf = config.NewConfig()

	if !conf.DebugMode {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Establishing connection with PostgreSQL database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%v sslmode=%s",
		conf.DB.Host,
		conf.DB.User,
		conf.DB.Password,
		conf.DB.Name,
		conf.DB.Port,
		conf.DB.SSL,
	)

	connected := false
	for !connected {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			log.Println("Error while connecting to Postgres")
			log.Println(err)
			log.Println("Retrying in 30 seconds..")
			time.Sleep(30 * time.Second)
		} else {
			connected = true
		}
	}
	config.InitDB(db, conf)

	if conf.ElasticSearch.CloudID != "" {
		es.Client, err = elasticsearch.NewClient(
			elasticsearch.Config{
				CloudID: conf.ElasticSearch.CloudID,
				APIKey:  conf.ElasticSearch.APIKey,
			})
		es.Index = conf.ElasticSearch.Index

		if err != nil {
			log.Println("Error while connecting to ElasticSearch")
			log.Println(err)
		} else {
			es.Enabled = true
		}
	}
}

func init() {
	bus = events.NewBus()

	// Services
	us = services.NewUserService(db, conf)
	rls = services.NewRoleService(db, conf)
	ms = services.NewMemberService(db, conf)
	ks = services.NewApiKeyService(db, conf)
	as = services.NewAuthService(conf, us, ms, ks)
	als = services.NewAuditService(db, conf, es)

	ps = services.NewProjectService(db, conf)
	cs = services.NewChannelService(db, conf)
	fs = services.NewFeedbackService(db, conf, bus)
	is = services.NewIssueService(db, conf, bus)
	cats = services.NewCategoryService(db, conf)
	ws = services.NewWebhookService(db, conf)

	wd := services.NewWebhookDispatcher(conf.Webhook)
	wl = services.NewWebhookListener(db, ws, wd)
	wl.Register(bus)

	if conf.LDAP.FQDN != "" {
		authProviders = append(authProviders, "active_directory")
	}

	// Controllers
	ac = controllers.NewAuthController(as, als, authProviders)
	alc = controllers.NewAuditController(als, as)
	pc = controllers.NewProjectController(ps, ms, rls, as, als)
	cc = controllers.NewChannelController(cs, as, als)
	fc = controllers.NewFeedbackController(fs, as, als)
	ic = controllers.NewIssueController(is, as, als)
	catc = controllers.NewCategoryController(cats, as, als)
	wc = controllers.NewWebhookController(ws, as, als)
	uc = controllers.NewUserController(us, as, als)
	rlc = controllers.NewRoleController(rls, as, als)
	mc = controllers.NewMemberController(ms, as, als)
	kc = controllers.NewApiKeyController(ks, as, als)
}

//	@title			Swagger FeedHub
//	@version		v0.1
//	@description	Feedback management API with webhook fan-out.

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.

func main() {
	router = gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Range", "Authorization", "x-api-key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	docs.SwaggerInfo.BasePath = "/api/v1"
	basepath := router.Group("/api/v1")
	{
		ac.SetAuthRoutes(basepath.Group("/auth"))

		audit := basepath.Group("/audit_logs")
		users := basepath.Group("/users")
		roles := basepath.Group("/roles")
		{
			alc.SetAuditRoutes(audit, conf)
			uc.SetUserRoutes(users, conf)
			rlc.SetRoleRoutes(roles, conf)
		}

		projects := basepath.Group("/admin/projects")
		pc.SetProjectRoutes(projects, conf)

		project := basepath.Group("/admin/projects/:pid")
		{
			cc.SetChannelRoutes(project.Group("/channels"), conf)
			fc.SetFeedbackRoutes(project, conf)
			ic.SetIssueRoutes(project.Group("/issues"), conf)
			catc.SetCategoryRoutes(project.Group("/categories"), conf)
			wc.SetWebhookRoutes(project.Group("/webhooks"), conf)
			mc.SetMemberRoutes(project.Group("/members"), conf)
			kc.SetApiKeyRoutes(project.Group("/apikeys"), conf)
		}
	}

	log.Fatal(router.Run())
}
