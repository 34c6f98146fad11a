package cron

import (
	"Microblog/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultLastSeenSpec = "@every 1m"

type Manager struct {
	engine       *cron.Cron
	lastSeenSpec string
	lastSeenJob  *job.LastSeenJob
}

func NewCronManager(lastSeenSpec string, lastSeenJob *job.LastSeenJob) *Manager {
	if lastSeenSpec == "" {
		lastSeenSpec = defaultLastSeenSpec
	}
	return &Manager{
		engine:       cron.New(cron.WithSeconds()),
		lastSeenSpec: lastSeenSpec,
		lastSeenJob:  lastSeenJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.lastSeenSpec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.lastSeenJob)); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
