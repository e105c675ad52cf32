package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// fakeClient is an in-memory Client with just enough redis semantics for the
// components in this package: expiries driven by an injectable clock, list and
// zset ordering, and per-command error injection.
type fakeClient struct {
	mu  sync.Mutex
	now func() time.Time

	strings map[string]string
	lists   map[string][]string
	hashes  map[string]map[string]string
	zsets   map[string]map[string]float64
	sets    map[string]map[string]struct{}
	expiry  map[string]time.Time

	published map[string][]string
	errOn     map[string]error

	// Interleave hooks, run after the command returns its result with the
	// lock released. They let a test squeeze a competing client between a
	// read and the write that follows it.
	afterZRangeByScore func()
	afterLRange        func()
}

func newFakeClient() *fakeClient {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &fakeClient{
		now:       func() time.Time { return base },
		strings:   map[string]string{},
		lists:     map[string][]string{},
		hashes:    map[string]map[string]string{},
		zsets:     map[string]map[string]float64{},
		sets:      map[string]map[string]struct{}{},
		expiry:    map[string]time.Time{},
		published: map[string][]string{},
		errOn:     map[string]error{},
	}
}

// advance moves the fake clock forward; key expiry follows it.
func (f *fakeClient) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.now().Add(d)
	f.now = func() time.Time { return t }
}

// clock exposes the fake time source, for wiring into components under test.
func (f *fakeClient) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now()
}

func (f *fakeClient) failWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errOn[op] = err
}

func (f *fakeClient) fail(op string) error { return f.errOn[op] }

// reap drops the key from every store if its expiry passed. Callers hold mu.
func (f *fakeClient) reap(key string) {
	at, ok := f.expiry[key]
	if !ok || f.now().Before(at) {
		return
	}
	f.deleteKey(key)
}

func (f *fakeClient) deleteKey(key string) {
	delete(f.strings, key)
	delete(f.lists, key)
	delete(f.hashes, key)
	delete(f.zsets, key)
	delete(f.sets, key)
	delete(f.expiry, key)
}

func (f *fakeClient) setExpiry(key string, ttl time.Duration) {
	if ttl > 0 {
		f.expiry[key] = f.now().Add(ttl)
	} else {
		delete(f.expiry, key)
	}
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.fail("PING") }
func (f *fakeClient) Close() error                   { return nil }

func (f *fakeClient) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GET"); err != nil {
		return "", err
	}
	f.reap(key)
	v, ok := f.strings[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SET"); err != nil {
		return err
	}
	f.strings[key] = toString(value)
	f.setExpiry(key, expiration)
	return nil
}

func (f *fakeClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SETNX"); err != nil {
		return false, err
	}
	f.reap(key)
	if _, ok := f.strings[key]; ok {
		return false, nil
	}
	f.strings[key] = toString(value)
	f.setExpiry(key, expiration)
	return true, nil
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DEL"); err != nil {
		return err
	}
	for _, k := range keys {
		f.deleteKey(k)
	}
	return nil
}

func (f *fakeClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("KEYS"); err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for k := range f.strings {
		f.reap(k)
		if _, ok := f.strings[k]; ok && strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("EXISTS"); err != nil {
		return 0, err
	}
	var n int64
	for _, k := range keys {
		f.reap(k)
		if f.hasKey(k) {
			n++
		}
	}
	return n, nil
}

func (f *fakeClient) hasKey(k string) bool {
	if _, ok := f.strings[k]; ok {
		return true
	}
	if _, ok := f.lists[k]; ok {
		return true
	}
	if _, ok := f.hashes[k]; ok {
		return true
	}
	if _, ok := f.zsets[k]; ok {
		return true
	}
	_, ok := f.sets[k]
	return ok
}

func (f *fakeClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("EXPIRE"); err != nil {
		return err
	}
	f.setExpiry(key, expiration)
	return nil
}

func (f *fakeClient) Incr(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("INCR"); err != nil {
		return 0, err
	}
	f.reap(key)
	n, _ := strconv.ParseInt(f.strings[key], 10, 64)
	n++
	f.strings[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (f *fakeClient) LPush(ctx context.Context, key string, values ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("LPUSH"); err != nil {
		return err
	}
	f.reap(key)
	for _, v := range values {
		f.lists[key] = append([]string{toString(v)}, f.lists[key]...)
	}
	return nil
}

func (f *fakeClient) LTrim(ctx context.Context, key string, start, stop int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("LTRIM"); err != nil {
		return err
	}
	list := f.lists[key]
	if start < 0 {
		start = 0
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start > stop || len(list) == 0 {
		delete(f.lists, key)
		return nil
	}
	f.lists[key] = list[start : stop+1]
	return nil
}

func (f *fakeClient) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	f.mu.Lock()
	if err := f.fail("LRANGE"); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.reap(key)
	list := f.lists[key]
	if start < 0 {
		start = 0
	}
	if stop < 0 || stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	var out []string
	if start <= stop && len(list) > 0 {
		out = make([]string, stop-start+1)
		copy(out, list[start:stop+1])
	}
	hook := f.afterLRange
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeClient) LRem(ctx context.Context, key string, count int64, value interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("LREM"); err != nil {
		return 0, err
	}
	want := toString(value)
	var kept []string
	var removed int64
	for _, v := range f.lists[key] {
		if v == want {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	f.lists[key] = kept
	return removed, nil
}

func (f *fakeClient) RPopLPush(ctx context.Context, source, destination string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("RPOPLPUSH"); err != nil {
		return "", err
	}
	f.reap(source)
	list := f.lists[source]
	if len(list) == 0 {
		return "", redis.Nil
	}
	v := list[len(list)-1]
	f.lists[source] = list[:len(list)-1]
	f.lists[destination] = append([]string{v}, f.lists[destination]...)
	return v, nil
}

func (f *fakeClient) HSet(ctx context.Context, key string, values ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("HSET"); err != nil {
		return err
	}
	f.reap(key)
	h := f.hashes[key]
	if h == nil {
		h = map[string]string{}
		f.hashes[key] = h
	}
	for i := 0; i+1 < len(values); i += 2 {
		h[toString(values[i])] = toString(values[i+1])
	}
	return nil
}

func (f *fakeClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("HGETALL"); err != nil {
		return nil, err
	}
	f.reap(key)
	out := map[string]string{}
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeClient) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("HINCRBY"); err != nil {
		return 0, err
	}
	h := f.hashes[key]
	if h == nil {
		h = map[string]string{}
		f.hashes[key] = h
	}
	n, _ := strconv.ParseInt(h[field], 10, 64)
	n += incr
	h[field] = strconv.FormatInt(n, 10)
	return n, nil
}

func (f *fakeClient) ZAdd(ctx context.Context, key string, score float64, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ZADD"); err != nil {
		return err
	}
	z := f.zsets[key]
	if z == nil {
		z = map[string]float64{}
		f.zsets[key] = z
	}
	z[member] = score
	return nil
}

func (f *fakeClient) ZRangeByScore(ctx context.Context, key, min, max string) ([]string, error) {
	f.mu.Lock()
	if err := f.fail("ZRANGEBYSCORE"); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	lo, hi := parseScore(min, true), parseScore(max, false)
	type entry struct {
		member string
		score  float64
	}
	var due []entry
	for m, s := range f.zsets[key] {
		if s >= lo && s <= hi {
			due = append(due, entry{m, s})
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].score < due[j].score })
	out := make([]string, len(due))
	for i, e := range due {
		out[i] = e.member
	}
	hook := f.afterZRangeByScore
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeClient) ZRem(ctx context.Context, key string, members ...interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ZREM"); err != nil {
		return 0, err
	}
	var removed int64
	for _, m := range members {
		if _, ok := f.zsets[key][toString(m)]; ok {
			delete(f.zsets[key], toString(m))
			removed++
		}
	}
	return removed, nil
}

func (f *fakeClient) ZIncrBy(ctx context.Context, key string, increment float64, member string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ZINCRBY"); err != nil {
		return 0, err
	}
	z := f.zsets[key]
	if z == nil {
		z = map[string]float64{}
		f.zsets[key] = z
	}
	z[member] += increment
	return z[member], nil
}

func (f *fakeClient) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ZREVRANGE"); err != nil {
		return nil, err
	}
	var all []ZMember
	for m, s := range f.zsets[key] {
		all = append(all, ZMember{Member: m, Score: s})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].Member < all[j].Member
	})
	if start < 0 {
		start = 0
	}
	if stop < 0 || stop >= int64(len(all)) {
		stop = int64(len(all)) - 1
	}
	if start > stop || len(all) == 0 {
		return nil, nil
	}
	return all[start : stop+1], nil
}

func (f *fakeClient) SAdd(ctx context.Context, key string, members ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SADD"); err != nil {
		return err
	}
	s := f.sets[key]
	if s == nil {
		s = map[string]struct{}{}
		f.sets[key] = s
	}
	for _, m := range members {
		s[toString(m)] = struct{}{}
	}
	return nil
}

func (f *fakeClient) SMIsMember(ctx context.Context, key string, members []string) ([]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SMISMEMBER"); err != nil {
		return nil, err
	}
	f.reap(key)
	out := make([]bool, len(members))
	for i, m := range members {
		_, out[i] = f.sets[key][m]
	}
	return out, nil
}

func (f *fakeClient) Publish(ctx context.Context, channel string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("PUBLISH"); err != nil {
		return err
	}
	f.published[channel] = append(f.published[channel], toString(message))
	return nil
}

func parseScore(s string, isMin bool) float64 {
	switch s {
	case "-inf":
		return -1 << 60
	case "+inf":
		return 1 << 60
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if isMin {
			return -1 << 60
		}
		return 1 << 60
	}
	return v
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
