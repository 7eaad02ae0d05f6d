/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-12 16:09:46
 * @LastEditTime: 2025-10-13 10:21:40
 * @LastEditors: 安知鱼
 */
// internal/app/task/jobs.go
package task

// Job 是所有后台定时任务的统一接口，与 cron.Job 接口兼容。
// Name 用于日志中的 job_name 字段
type Job interface {
	Run()
	Name() string
}
