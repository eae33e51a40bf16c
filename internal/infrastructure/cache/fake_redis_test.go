package cache

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// memoryRedis answers GET, SET and DEL from a map through a client hook so
// tests never open a connection
type memoryRedis struct {
	mu   sync.Mutex
	data map[string]string
	fail error
}

func newMemoryRedisClient() (*redis.Client, *memoryRedis) {
	fake := &memoryRedis{data: make(map[string]string)}
	client := redis.NewClient(&redis.Options{Addr: "memory:0"})
	client.AddHook(fake)
	return client, fake
}

func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("memoryRedis does not dial")
	}
}

func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memoryRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.fail != nil {
			cmd.SetErr(m.fail)
			return m.fail
		}

		args := cmd.Args()
		switch strings.ToLower(cmd.Name()) {
		case "get":
			key := args[1].(string)
			value, ok := m.data[key]
			if !ok {
				cmd.SetErr(redis.Nil)
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(value)
		case "set":
			key := args[1].(string)
			nx := false
			for _, arg := range args[3:] {
				if s, ok := arg.(string); ok && strings.EqualFold(s, "nx") {
					nx = true
				}
			}
			_, exists := m.data[key]
			if nx && exists {
				setBool(cmd, false)
				return nil
			}
			m.data[key] = fmt.Sprint(args[2])
			setBool(cmd, true)
		case "del":
			var removed int64
			for _, arg := range args[1:] {
				key := arg.(string)
				if _, ok := m.data[key]; ok {
					delete(m.data, key)
					removed++
				}
			}
			cmd.(*redis.IntCmd).SetVal(removed)
		default:
			err := fmt.Errorf("memoryRedis: unsupported command %s", cmd.Name())
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

func setBool(cmd redis.Cmder, ok bool) {
	switch c := cmd.(type) {
	case *redis.BoolCmd:
		c.SetVal(ok)
	case *redis.StatusCmd:
		c.SetVal("OK")
	}
}
