package server

import "snakearena/game"

// Input 客户端输入（意图），由房间在下一帧解释并驱动会话
type Input struct {
	PlayerID PlayerID // 为空表示来自管理接口
	Request  game.Request
	Seq      int64 // 客户端本地序列号，用于去重
}
