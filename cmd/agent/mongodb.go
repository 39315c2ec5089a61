package agent

import (
	"github.com/spf13/cobra"
)

// initMongoFlags 必填项不设默认值，未在 flag/文件/环境变量中给出即拒绝启动
func initMongoFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	m := defaultCfg.MongoDB
	prefix := "mongodb."

	f.String(prefix+"host", "", "-> MongoDB host | 主机")
	f.Int(prefix+"port", 0, "-> MongoDB port | 端口")
	f.String(prefix+"db", "", "-> Target database | 目标数据库")
	f.String(prefix+"user", "", "-> Username (optional) | 用户名")
	f.String(prefix+"password", "", "-> Password (optional) | 密码")
	f.Bool(prefix+"replica_flag", false, "-> Enable replica set mode | 副本集模式")
	f.String(prefix+"replica_connection", "", "-> Replica seed list h1:p1,h2:p2 | 副本集种子列表")
	f.String(prefix+"replicaSet", "", "-> Replica set name | 副本集名称")
	f.Duration(prefix+"timeout", m.Timeout, "-> Connect/write timeout | 连接/写入超时")
	f.String(prefix+"hostname", m.Hostname, "-> Add hostname to documents [auto,true,false] | 文档携带主机名")
}
