package utils

import "time"

type TimeServiceInterface interface {
	WaitSeconds(seconds int64)
	WaitMilliseconds(milliseconds int64)
	GetNowUnix() int64
	GetNowUnixMilli() int64
	GetNowDateTimeString() string
}

type TimeHelper struct {
}

func (t *TimeHelper) WaitMilliseconds(milliseconds int64) {
	time.Sleep(time.Millisecond * time.Duration(milliseconds))
}
func (t *TimeHelper) WaitSeconds(seconds int64) {
	time.Sleep(time.Second * time.Duration(seconds))
}
func (t *TimeHelper) GetNowUnix() int64 {
	return time.Now().Unix()
}
func (t *TimeHelper) GetNowUnixMilli() int64 {
	return time.Now().UnixMilli()
}
func (t *TimeHelper) GetNowDateTimeString() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
