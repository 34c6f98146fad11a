package kafka

import (
	"Microblog/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

const clientID = "microblog"

// newSaramaConfig 手动提交 offset，新消费组从最新位置开始
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = clientID
	c.Version = sarama.V2_8_0_0

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	consumer := kafkaCfg.Consumer
	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Offsets.AutoCommit.Enable = false
	c.Consumer.MaxProcessingTime = seconds(consumer.MaxProcessingTime, 10)

	group := &c.Consumer.Group
	group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	group.Rebalance.Timeout = seconds(consumer.RebalanceTimeout, 60)
	group.Session.Timeout = seconds(consumer.SessionTimeout, 30)
	group.Heartbeat.Interval = seconds(consumer.HeartbeatInterval, 3)

	return c
}

// seconds 未配置时使用默认值
func seconds(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}
