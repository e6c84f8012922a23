package dataset

// Fallback returns the built-in sample dataset used when the course table is
// missing or unreadable: ten courses over clusters 0–4.
func Fallback() Dataset {
	return New([]Item{
		{Cluster: 0, Factor1: 2.5, Factor2: -1.5, Name: "高度AI理論", Description: "最新論文の輪読を行います", RecommendedOrder: 1},
		{Cluster: 0, Factor1: 2.0, Factor2: -2.0, Name: "生成AI実装特論", Description: "LLMのファインチューニング", RecommendedOrder: 2},
		{Cluster: 1, Factor1: 1.5, Factor2: 2.0, Name: "統計数学基礎", Description: "確率統計の基礎から", RecommendedOrder: 1},
		{Cluster: 1, Factor1: 1.8, Factor2: 1.5, Name: "データ分析入門", Description: "Pythonでのデータ操作", RecommendedOrder: 2},
		{Cluster: 2, Factor1: -2.0, Factor2: 1.0, Name: "Web開発基礎", Description: "HTML/CSS/JSの基礎", RecommendedOrder: 1},
		{Cluster: 2, Factor1: -1.5, Factor2: 1.5, Name: "Linuxサーバー構築", Description: "コマンドライン操作", RecommendedOrder: 2},
		{Cluster: 3, Factor1: 0.0, Factor2: 0.1, Name: "情報リテラシー", Description: "PCの基本操作", RecommendedOrder: 1},
		{Cluster: 3, Factor1: 0.2, Factor2: -0.1, Name: "ITパスポート対策", Description: "資格取得向け", RecommendedOrder: 2},
		{Cluster: 4, Factor1: -2.5, Factor2: -2.0, Name: "Reactアプリ開発", Description: "モダンフロントエンド", RecommendedOrder: 1},
		{Cluster: 4, Factor1: -1.8, Factor2: -1.5, Name: "最新API活用", Description: "生成AI APIの活用", RecommendedOrder: 2},
	})
}
